package domain

import (
	"fmt"
	"time"
)

// AccountStatus is the lifecycle state of a user account.
// Transitions are server-initiated only, never client-writable.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusDeleted  AccountStatus = "deleted"
	StatusBlocked  AccountStatus = "blocked"
)

// ParseAccountStatus parses a status string. Unknown values are an error,
// never a permissive default.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case StatusActive, StatusInactive, StatusDeleted, StatusBlocked:
		return AccountStatus(s), nil
	}
	return "", fmt.Errorf("unknown account status %q", s)
}

// VerificationStatus is the account's identity-verification state.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationPending  VerificationStatus = "pending"
	VerificationRejected VerificationStatus = "rejected"
)

// ParseVerificationStatus parses a verification string.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case VerificationVerified, VerificationPending, VerificationRejected:
		return VerificationStatus(s), nil
	}
	return "", fmt.Errorf("unknown verification status %q", s)
}

// Role is the account's platform role.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleExpert Role = "expert"
	RoleAdmin  Role = "admin"
)

// ParseRole parses a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleFarmer, RoleExpert, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the persisted account record. The status and verification
// fields are the source of truth for authorization decisions; the
// blocklist cache only accelerates them.
type User struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string
	Email        string
	Phone        string
	Status       AccountStatus
	Verification VerificationStatus
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated identity attached to a request by the
// authorization gate once the token claims have been validated.
type Identity struct {
	UserID       int64
	Username     string
	FullName     string
	Status       AccountStatus
	Verification VerificationStatus
	Role         Role
}

// VerificationToken is the single-use token backing the email
// verification link flow. Distinct from an OTP.
type VerificationToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
