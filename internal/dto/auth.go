package dto

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	FullName string `json:"full_name" binding:"required,max=128"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest carries one identifier plus the password. Exactly one of
// username/email/phone should be set; precedence is username, email, phone.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" binding:"required"`
}

// OTPLoginRequest asks for a login code to be sent to a phone.
type OTPLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyOTPRequest completes an OTP login.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ForgetPasswordRequest starts the password reset flow.
type ForgetPasswordRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyResetOTPRequest checks the reset code before a new password is accepted.
type VerifyResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResetPasswordRequest sets the new password after OTP verification.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// LogoutRequest invalidates a reference token.
type LogoutRequest struct {
	ReferenceToken string `json:"reference_token" binding:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
	Verification string `json:"verification"`
	Role         string `json:"role"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	Token          string        `json:"token"`
	ReferenceToken string        `json:"reference_token"`
	User           *UserResponse `json:"user"`
}
