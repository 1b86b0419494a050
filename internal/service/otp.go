package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/cache"
)

// OTPPurpose tags a one-time code with its use case. The purpose
// constrains which identifier shape is acceptable and which key the
// code is stored under.
type OTPPurpose string

const (
	PurposeLogin              OTPPurpose = "login"
	PurposeRegistration       OTPPurpose = "registration"
	PurposeForgotPassword     OTPPurpose = "forgot_password"
	PurposeExpertVerification OTPPurpose = "expert_verification"
)

var otpPurposes = []OTPPurpose{
	PurposeLogin, PurposeRegistration, PurposeForgotPassword, PurposeExpertVerification,
}

var (
	// ErrBadIdentifier means the identifier shape does not match what
	// the purpose expects (e.g. a phone number for Registration).
	ErrBadIdentifier = errors.New("identifier shape does not match OTP purpose")
	// ErrUnknownPurpose means the purpose tag is not one of the four
	// supported use cases.
	ErrUnknownPurpose = errors.New("unknown OTP purpose")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

// IsEmail reports whether the identifier looks like an email address.
func IsEmail(identifier string) bool {
	return emailPattern.MatchString(identifier)
}

// IsPhone reports whether the identifier looks like a phone number.
func IsPhone(identifier string) bool {
	return phonePattern.MatchString(identifier)
}

// identifierAllowed checks the identifier shape against the purpose.
// Login and ExpertVerification accept either channel; Registration and
// ForgotPassword are email-only.
func identifierAllowed(identifier string, purpose OTPPurpose) error {
	switch purpose {
	case PurposeLogin, PurposeExpertVerification:
		if IsEmail(identifier) || IsPhone(identifier) {
			return nil
		}
	case PurposeRegistration, PurposeForgotPassword:
		if IsEmail(identifier) {
			return nil
		}
	default:
		return ErrUnknownPurpose
	}
	return ErrBadIdentifier
}

// otpRecord is the persisted form of a generated code.
type otpRecord struct {
	Code      string     `json:"code"`
	Purpose   OTPPurpose `json:"purpose"`
	ExpiresAt int64      `json:"expires_at"`
}

// OTPService generates, verifies, and expires purpose-scoped one-time
// codes. Records are keyed by (purpose, identifier); storing a new code
// replaces any earlier one, so at most one code per pair is effective.
type OTPService struct {
	cache *cache.Client
	ttl   time.Duration
	now   func() time.Time
}

// NewOTPService creates the ledger with the configured expiry window.
func NewOTPService(cacheClient *cache.Client, ttl time.Duration) *OTPService {
	return &OTPService{
		cache: cacheClient,
		ttl:   ttl,
		now:   time.Now,
	}
}

func otpKey(identifier string, purpose OTPPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, identifier)
}

// Generate creates a 6-digit code for (identifier, purpose) and stores
// it with the expiry window. The identifier shape is validated first.
func (s *OTPService) Generate(ctx context.Context, identifier string, purpose OTPPurpose) (string, error) {
	if err := identifierAllowed(identifier, purpose); err != nil {
		return "", err
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	record := otpRecord{
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, otpKey(identifier, purpose), string(encoded), s.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code against the stored record. Missing
// records fail; expired records are purged and fail; surviving records
// are compared in constant time. A successful verification does not
// consume the record; the caller deletes it to prevent replay.
func (s *OTPService) Verify(ctx context.Context, identifier, code string, purpose OTPPurpose) (bool, error) {
	raw, err := s.cache.Get(ctx, otpKey(identifier, purpose))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	var record otpRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return false, err
	}

	if s.now().Unix() >= record.ExpiresAt {
		// Lazy expiry: purge the dead record on detection.
		_ = s.cache.Del(ctx, otpKey(identifier, purpose))
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return false, nil
	}
	return true, nil
}

// Delete removes any codes stored for the identifier across all
// purposes. Idempotent.
func (s *OTPService) Delete(ctx context.Context, identifier string) error {
	keys := make([]string, 0, len(otpPurposes))
	for _, p := range otpPurposes {
		keys = append(keys, otpKey(identifier, p))
	}
	return s.cache.Del(ctx, keys...)
}
