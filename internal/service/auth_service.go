package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/dto"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/notify"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/repository"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/token"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/telemetry"
)

// AuthService errors
var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountBlocked           = errors.New("account is blocked")
	ErrAccountDeleted           = errors.New("account is deleted")
	ErrAccountNotFound          = errors.New("account not found")
	ErrDuplicateUsername        = errors.New("username already registered")
	ErrDuplicateEmail           = errors.New("email already registered")
	ErrDuplicatePhone           = errors.New("phone already registered")
	ErrInvalidOTP               = errors.New("invalid or expired OTP")
	ErrRoleNotAllowed           = errors.New("role not allowed at registration")
	ErrVerificationTokenInvalid = errors.New("verification token invalid")
	ErrVerificationTokenExpired = errors.New("verification token expired")
	ErrNotTokenOwner            = errors.New("reference token belongs to another account")
)

// AuthService orchestrates registration, login, OTP flows, password
// reset, email verification, and logout. It composes the token codec,
// the reference token service, the OTP ledger, the blocklist, and the
// notification dispatcher; persistence goes through the user
// and verification-token repositories.
type AuthService struct {
	users          repository.UserRepository
	verifyTokens   repository.VerificationTokenRepository
	codec          *token.Codec
	refTokens      *ReferenceTokenService
	otp            *OTPService
	blocklist      *Blocklist
	notifier       notify.Notifier
	log            *zap.Logger
	bcryptCost     int
	verifyTokenTTL time.Duration
	now            func() time.Time
}

// AuthServiceConfig carries the tunables the orchestrator needs.
type AuthServiceConfig struct {
	BcryptCost     int
	VerifyTokenTTL time.Duration
}

// NewAuthService wires the orchestrator.
func NewAuthService(
	users repository.UserRepository,
	verifyTokens repository.VerificationTokenRepository,
	codec *token.Codec,
	refTokens *ReferenceTokenService,
	otp *OTPService,
	blocklist *Blocklist,
	notifier notify.Notifier,
	log *zap.Logger,
	cfg AuthServiceConfig,
) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 12
	}
	ttl := cfg.VerifyTokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &AuthService{
		users:          users,
		verifyTokens:   verifyTokens,
		codec:          codec,
		refTokens:      refTokens,
		otp:            otp,
		blocklist:      blocklist,
		notifier:       notifier,
		log:            log,
		bcryptCost:     cost,
		verifyTokenTTL: ttl,
		now:            time.Now,
	}
}

// Register creates a new account in the Inactive/Pending state and
// dispatches a verification email carrying a single-use link token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateUsername
	}
	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.users.ExistsByPhone(ctx, req.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicatePhone
	}

	role := domain.RoleFarmer
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return nil, ErrRoleNotAllowed
		}
		// Admin accounts are never self-service.
		if parsed == domain.RoleAdmin {
			return nil, ErrRoleNotAllowed
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Email:        req.Email,
		Phone:        req.Phone,
		Status:       domain.StatusInactive,
		Verification: domain.VerificationPending,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		// The account exists; the user can request the mail again.
		s.log.Warn("verification email dispatch failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// sendVerificationEmail stores a fresh link token, generates the paired
// registration code, and enqueues the mail. Verification needs both.
func (s *AuthService) sendVerificationEmail(ctx context.Context, user *domain.User) error {
	code, err := s.otp.Generate(ctx, user.Email, PurposeRegistration)
	if err != nil {
		return err
	}

	linkToken := &domain.VerificationToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.verifyTokenTTL),
		CreatedAt: s.now(),
	}
	if err := s.verifyTokens.Create(ctx, linkToken); err != nil {
		return err
	}

	return s.notifier.SendEmail(ctx, user.Email, "verify_email", map[string]string{
		"full_name": user.FullName,
		"token":     linkToken.Token,
		"otp":       code,
	})
}

// checkLoginable applies the account-state rules shared by every login
// path. A blocked account also gets pushed into the blocklist cache so
// the gate can reject its outstanding tokens.
func (s *AuthService) checkLoginable(ctx context.Context, user *domain.User) error {
	switch user.Status {
	case domain.StatusBlocked:
		s.blocklist.Add(ctx, user.ID)
		return ErrAccountBlocked
	case domain.StatusDeleted:
		return ErrAccountDeleted
	}
	return nil
}

// issueTokens creates the signed token and its opaque reference.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	signed, err := s.codec.Issue(user)
	if err != nil {
		return nil, err
	}
	ref, err := s.refTokens.Wrap(ctx, signed, s.codec.Lifetime())
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:          signed,
		ReferenceToken: ref,
		User:           UserToResponse(user),
	}, nil
}

// Login authenticates with a password. The identifier is taken by
// precedence: username, then email, then phone.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	var (
		user *domain.User
		err  error
	)
	switch {
	case req.Username != "":
		user, err = s.users.GetByUsername(ctx, req.Username)
	case req.Email != "":
		user, err = s.users.GetByEmail(ctx, req.Email)
	case req.Phone != "":
		user, err = s.users.GetByPhone(ctx, req.Phone)
	default:
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.checkLoginable(ctx, user); err != nil {
		return nil, err
	}

	if user.Verification == domain.VerificationPending {
		// Login proceeds; the gate keeps protected routes closed until
		// the account verifies. Remind asynchronously.
		go s.resendVerification(user)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) resendVerification(user *domain.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.sendVerificationEmail(ctx, user); err != nil {
		s.log.Warn("re-verification email dispatch failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// RequestLoginOTP generates a login code for the phone and dispatches it
// over SMS. The phone must belong to a loginable account.
func (s *AuthService) RequestLoginOTP(ctx context.Context, phone string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.RequestLoginOTP")
	defer span.End()

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAccountNotFound
	}
	if err := s.checkLoginable(ctx, user); err != nil {
		return err
	}

	code, err := s.otp.Generate(ctx, phone, PurposeLogin)
	if err != nil {
		return err
	}

	return s.notifier.SendSMS(ctx, phone, "otp_login", map[string]string{"code": code})
}

// VerifyLoginOTP completes an OTP login, consuming the code.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, phone, code string) (*dto.LoginResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.VerifyLoginOTP")
	defer span.End()

	ok, err := s.otp.Verify(ctx, phone, code, PurposeLogin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	if err := s.checkLoginable(ctx, user); err != nil {
		return nil, err
	}

	if err := s.otp.Delete(ctx, phone); err != nil {
		s.log.Warn("login OTP cleanup failed", zap.Error(err))
	}

	// A successful OTP login proves control of the phone channel.
	if user.Verification == domain.VerificationPending {
		if err := s.users.UpdateVerification(ctx, user.ID, domain.VerificationVerified); err != nil {
			return nil, err
		}
		user.Verification = domain.VerificationVerified
	}
	if user.Status == domain.StatusInactive {
		if err := s.users.UpdateStatus(ctx, user.ID, domain.StatusActive); err != nil {
			return nil, err
		}
		user.Status = domain.StatusActive
	}

	return s.issueTokens(ctx, user)
}

// ForgotPassword locates the account by phone, stores a reset code
// against the account's email, and dispatches it there. Returns the
// email the code was sent to.
func (s *AuthService) ForgotPassword(ctx context.Context, phone string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.ForgotPassword")
	defer span.End()

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrAccountNotFound
	}
	if err := s.checkLoginable(ctx, user); err != nil {
		return "", err
	}

	code, err := s.otp.Generate(ctx, user.Email, PurposeForgotPassword)
	if err != nil {
		return "", err
	}

	if err := s.notifier.SendEmail(ctx, user.Email, "otp_reset_password", map[string]string{
		"full_name": user.FullName,
		"code":      code,
	}); err != nil {
		return "", err
	}
	return user.Email, nil
}

// VerifyResetOTP checks the reset code without consuming it, so the
// client can gate its password form before submitting.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) error {
	ok, err := s.otp.Verify(ctx, email, code, PurposeForgotPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}
	return nil
}

// ResetPassword sets a new password after a final OTP check and consumes
// every outstanding code for the account.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.ResetPassword")
	defer span.End()

	ok, err := s.otp.Verify(ctx, email, code, PurposeForgotPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAccountNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := s.otp.Delete(ctx, email); err != nil {
		s.log.Warn("reset OTP cleanup failed", zap.Error(err))
	}
	return nil
}

// VerifyEmail consumes a verification link token together with its
// paired registration code, activating the account. The link and the
// code arrive in the same mail; presenting both proves the full message
// was received, not just a leaked URL.
func (s *AuthService) VerifyEmail(ctx context.Context, email, linkToken, code string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.VerifyEmail")
	defer span.End()

	record, err := s.verifyTokens.Get(ctx, linkToken)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrVerificationTokenInvalid
	}
	if s.now().After(record.ExpiresAt) {
		_ = s.verifyTokens.Delete(ctx, linkToken)
		return ErrVerificationTokenExpired
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Email != email {
		return ErrVerificationTokenInvalid
	}

	ok, err := s.otp.Verify(ctx, email, code, PurposeRegistration)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOTP
	}

	if user.Verification != domain.VerificationVerified {
		if err := s.users.UpdateVerification(ctx, user.ID, domain.VerificationVerified); err != nil {
			return err
		}
	}
	if user.Status == domain.StatusInactive {
		if err := s.users.UpdateStatus(ctx, user.ID, domain.StatusActive); err != nil {
			return err
		}
	}

	if err := s.otp.Delete(ctx, email); err != nil {
		s.log.Warn("registration OTP cleanup failed", zap.Error(err))
	}
	return s.verifyTokens.Delete(ctx, linkToken)
}

// ValidateReferenceToken resolves a reference token, validates the
// wrapped session token, and returns both the token and its claims so a
// caller can recover its session from the opaque handle alone.
func (s *AuthService) ValidateReferenceToken(ctx context.Context, ref string) (string, *token.SessionClaims, error) {
	signed, err := s.refTokens.Resolve(ctx, ref)
	if err != nil {
		return "", nil, err
	}
	claims, err := s.codec.Validate(signed)
	if err != nil {
		// The mapping outlived the token; drop it.
		_ = s.refTokens.Invalidate(ctx, ref)
		return "", nil, ErrReferenceTokenNotFound
	}
	return signed, claims, nil
}

// Logout invalidates a reference token after confirming the caller owns it.
func (s *AuthService) Logout(ctx context.Context, identity *domain.Identity, ref string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Logout")
	defer span.End()

	_, claims, err := s.ValidateReferenceToken(ctx, ref)
	if err != nil {
		return err
	}
	if claims.Subject != identity.Username {
		return ErrNotTokenOwner
	}
	return s.refTokens.Invalidate(ctx, ref)
}

// Me returns the fresh account record for the authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return user, nil
}

// UserToResponse maps an account to its public view.
func UserToResponse(user *domain.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		Email:        user.Email,
		Phone:        user.Phone,
		Status:       string(user.Status),
		Verification: string(user.Verification),
		Role:         string(user.Role),
	}
}
