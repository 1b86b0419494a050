package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/middleware"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/service"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			response.Conflict(c, "username already registered")
		case errors.Is(err, service.ErrDuplicateEmail):
			response.Conflict(c, "email already registered")
		case errors.Is(err, service.ErrDuplicatePhone):
			response.Conflict(c, "phone already registered")
		case errors.Is(err, service.ErrRoleNotAllowed):
			response.BadRequest(c, "role not allowed at registration")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, service.UserToResponse(user))
}

// loginError maps the shared login failure modes onto the envelope.
func loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid credentials")
	case errors.Is(err, service.ErrAccountBlocked):
		response.Forbidden(c, "account is blocked")
	case errors.Is(err, service.ErrAccountDeleted):
		response.Unauthorized(c, "invalid credentials")
	case errors.Is(err, service.ErrAccountNotFound):
		response.NotFound(c, "account not found")
	case errors.Is(err, service.ErrInvalidOTP):
		response.BadRequest(c, "invalid or expired OTP")
	default:
		response.InternalError(c, err)
	}
}

// Login handles password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		loginError(c, err)
		return
	}

	response.Success(c, result)
}

// RequestLoginOTP sends a login code over SMS
// POST /api/v1/auth/login-otp
func (h *AuthHandler) RequestLoginOTP(c *gin.Context) {
	var req dto.OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.RequestLoginOTP(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, service.ErrBadIdentifier) {
			response.BadRequest(c, "invalid phone number")
			return
		}
		loginError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "OTP sent"})
}

// VerifyLoginOTP completes an OTP login
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.VerifyLoginOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		loginError(c, err)
		return
	}

	response.Success(c, result)
}

// ForgetPassword starts the password reset flow
// POST /api/v1/auth/forget-password
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req dto.ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	email, err := h.auth.ForgotPassword(c.Request.Context(), req.Phone)
	if err != nil {
		loginError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "reset code sent", "email": email})
}

// VerifyResetOTP checks a reset code without consuming it
// POST /api/v1/auth/verify-otp-for-reset
func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req dto.VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.VerifyResetOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		loginError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "OTP verified"})
}

// ResetPassword sets a new password after OTP verification
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		loginError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}

// VerifyEmail consumes a verification link token and its paired code
// GET /api/v1/auth/verify?email=...&token=...&otp=...
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	email := c.Query("email")
	linkToken := c.Query("token")
	code := c.Query("otp")
	if email == "" || linkToken == "" || code == "" {
		response.BadRequest(c, "email, token and otp are required")
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), email, linkToken, code); err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationTokenExpired):
			response.Error(c, http.StatusBadRequest, "TOKEN_EXPIRED", "verification link expired", "")
		case errors.Is(err, service.ErrVerificationTokenInvalid):
			response.BadRequest(c, "verification link invalid")
		case errors.Is(err, service.ErrInvalidOTP):
			response.BadRequest(c, "invalid or expired OTP")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, gin.H{"message": "account verified"})
}

// ValidateReferenceToken resolves a reference token back to its session
// token for a caller
// GET /api/v1/auth/validateReferenceToken
func (h *AuthHandler) ValidateReferenceToken(c *gin.Context) {
	ref := c.Query("reference_token")
	if ref == "" {
		response.BadRequest(c, "reference_token is required")
		return
	}

	signed, claims, err := h.auth.ValidateReferenceToken(c.Request.Context(), ref)
	if err != nil {
		response.Unauthorized(c, "reference token invalid")
		return
	}

	response.Success(c, gin.H{
		"token":    signed,
		"user_id":  claims.UserID,
		"username": claims.Subject,
		"expires":  claims.ExpiresAt,
	})
}

// Logout invalidates a reference token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authorization required")
		return
	}

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.Logout(c.Request.Context(), identity, req.ReferenceToken); err != nil {
		switch {
		case errors.Is(err, service.ErrNotTokenOwner):
			response.Forbidden(c, "reference token belongs to another account")
		case errors.Is(err, service.ErrReferenceTokenNotFound):
			response.Unauthorized(c, "reference token invalid")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the fresh account record for the caller
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authorization required")
		return
	}

	user, err := h.auth.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, service.UserToResponse(user))
}
