package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SessionClaims are the claims carried by a session token. They are a
// point-in-time snapshot of the account; callers must not trust the
// status fields beyond the token lifetime.
type SessionClaims struct {
	UserID             int64  `json:"user_id"`
	FullName           string `json:"full_name"`
	Status             string `json:"status"`
	VerificationStatus string `json:"verification_status"`
	Role               string `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the raw claims into a typed identity. Any enum value
// that does not parse is an error; the gate fails closed on it.
func (c *SessionClaims) Identity() (*domain.Identity, error) {
	status, err := domain.ParseAccountStatus(c.Status)
	if err != nil {
		return nil, err
	}
	verification, err := domain.ParseVerificationStatus(c.VerificationStatus)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{
		UserID:       c.UserID,
		Username:     c.Subject,
		FullName:     c.FullName,
		Status:       status,
		Verification: verification,
		Role:         role,
	}, nil
}

// Codec issues and validates signed session tokens. The signing key is
// supplied by configuration at startup so tokens survive process
// restarts for their full lifetime.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// NewCodec creates a codec with the given symmetric key and token lifetime.
func NewCodec(secret string, lifetime time.Duration, issuer string) *Codec {
	return &Codec{
		secret:   []byte(secret),
		lifetime: lifetime,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Issue creates a signed token embedding the account snapshot.
func (c *Codec) Issue(user *domain.User) (string, error) {
	now := c.now()
	claims := &SessionClaims{
		UserID:             user.ID,
		FullName:           user.FullName,
		Status:             string(user.Status),
		VerificationStatus: string(user.Verification),
		Role:               string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
// Expired tokens are reported distinctly from malformed or tampered ones.
func (c *Codec) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Lifetime returns the configured token lifetime.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}
