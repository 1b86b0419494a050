package token

import (
	"testing"
	"time"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:           42,
		Username:     "somchai",
		FullName:     "Somchai Jaidee",
		Status:       domain.StatusActive,
		Verification: domain.VerificationVerified,
		Role:         domain.RoleFarmer,
	}
}

func TestCodec_IssueAndValidate(t *testing.T) {
	codec := NewCodec("test-secret-key", 5*24*time.Hour, "smart-agriculture")

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if signed == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := codec.Validate(signed)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if claims.Subject != "somchai" {
		t.Errorf("Subject = %v, want somchai", claims.Subject)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %v, want 42", claims.UserID)
	}
	if claims.FullName != "Somchai Jaidee" {
		t.Errorf("FullName = %v, want Somchai Jaidee", claims.FullName)
	}
	if claims.Status != string(domain.StatusActive) {
		t.Errorf("Status = %v, want active", claims.Status)
	}
	if claims.VerificationStatus != string(domain.VerificationVerified) {
		t.Errorf("VerificationStatus = %v, want verified", claims.VerificationStatus)
	}
}

func TestCodec_ValidateTampered(t *testing.T) {
	codec := NewCodec("test-secret-key", time.Hour, "smart-agriculture")

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tampered := signed[:len(signed)-2] + "XX"
	if _, err := codec.Validate(tampered); err != ErrTokenInvalid {
		t.Errorf("Validate(tampered) error = %v, want %v", err, ErrTokenInvalid)
	}

	if _, err := codec.Validate("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("Validate(garbage) error = %v, want %v", err, ErrTokenInvalid)
	}
}

func TestCodec_ValidateWrongKey(t *testing.T) {
	codec := NewCodec("key-one", time.Hour, "smart-agriculture")
	other := NewCodec("key-two", time.Hour, "smart-agriculture")

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Validate(signed); err != ErrTokenInvalid {
		t.Errorf("Validate() with wrong key error = %v, want %v", err, ErrTokenInvalid)
	}
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	codec := NewCodec("test-secret-key", time.Hour, "smart-agriculture")

	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }

	signed, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("valid just before expiry", func(t *testing.T) {
		codec.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
		if _, err := codec.Validate(signed); err != nil {
			t.Errorf("Validate() just before expiry error = %v", err)
		}
	})

	t.Run("expired just after expiry", func(t *testing.T) {
		codec.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
		if _, err := codec.Validate(signed); err != ErrTokenExpired {
			t.Errorf("Validate() after expiry error = %v, want %v", err, ErrTokenExpired)
		}
	})
}

func TestSessionClaims_Identity(t *testing.T) {
	t.Run("valid claims", func(t *testing.T) {
		codec := NewCodec("test-secret-key", time.Hour, "smart-agriculture")
		signed, _ := codec.Issue(testUser())
		claims, err := codec.Validate(signed)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}

		identity, err := claims.Identity()
		if err != nil {
			t.Fatalf("Identity() error = %v", err)
		}
		if identity.UserID != 42 || identity.Username != "somchai" {
			t.Errorf("Identity() = %+v", identity)
		}
		if identity.Status != domain.StatusActive {
			t.Errorf("Identity() Status = %v, want active", identity.Status)
		}
		if identity.Role != domain.RoleFarmer {
			t.Errorf("Identity() Role = %v, want farmer", identity.Role)
		}
	})

	t.Run("unknown status fails closed", func(t *testing.T) {
		claims := &SessionClaims{
			UserID:             1,
			Status:             "superuser",
			VerificationStatus: string(domain.VerificationVerified),
			Role:               string(domain.RoleFarmer),
		}
		if _, err := claims.Identity(); err == nil {
			t.Error("Identity() with unknown status should fail")
		}
	})

	t.Run("unknown verification fails closed", func(t *testing.T) {
		claims := &SessionClaims{
			UserID:             1,
			Status:             string(domain.StatusActive),
			VerificationStatus: "trusted",
			Role:               string(domain.RoleFarmer),
		}
		if _, err := claims.Identity(); err == nil {
			t.Error("Identity() with unknown verification should fail")
		}
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		claims := &SessionClaims{
			UserID:             1,
			Status:             string(domain.StatusActive),
			VerificationStatus: string(domain.VerificationVerified),
			Role:               "root",
		}
		if _, err := claims.Identity(); err == nil {
			t.Error("Identity() with unknown role should fail")
		}
	})
}
