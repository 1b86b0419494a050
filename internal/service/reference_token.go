package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/cache"
)

// ErrReferenceTokenNotFound is returned when a reference token is
// unknown or already invalidated. Callers treat it as unauthorized.
var ErrReferenceTokenNotFound = errors.New("reference token not found")

const refTokenKeyPrefix = "reftoken:"

// ReferenceTokenService issues opaque, revocable handles that resolve to
// session tokens. Invalidating the handle is the only proactive logout
// mechanism, since a signed token cannot be revoked before its expiry.
type ReferenceTokenService struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewReferenceTokenService creates the service. The ttl caps how long a
// mapping lives; it should not outlive the wrapped token itself.
func NewReferenceTokenService(cacheClient *cache.Client, ttl time.Duration) *ReferenceTokenService {
	return &ReferenceTokenService{cache: cacheClient, ttl: ttl}
}

// Wrap stores the session token under a fresh opaque handle. tokenTTL is
// the remaining lifetime of the wrapped token; the mapping expires at
// whichever bound comes first.
func (s *ReferenceTokenService) Wrap(ctx context.Context, sessionToken string, tokenTTL time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ref := base64.URLEncoding.EncodeToString(buf)

	ttl := s.ttl
	if tokenTTL > 0 && tokenTTL < ttl {
		ttl = tokenTTL
	}

	if err := s.cache.Set(ctx, refTokenKeyPrefix+ref, sessionToken, ttl); err != nil {
		return "", err
	}
	return ref, nil
}

// Resolve returns the session token mapped to ref, failing closed on an
// unknown or invalidated handle.
func (s *ReferenceTokenService) Resolve(ctx context.Context, ref string) (string, error) {
	token, err := s.cache.Get(ctx, refTokenKeyPrefix+ref)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", ErrReferenceTokenNotFound
		}
		return "", err
	}
	return token, nil
}

// Invalidate removes the mapping; subsequent resolves fail.
func (s *ReferenceTokenService) Invalidate(ctx context.Context, ref string) error {
	return s.cache.Del(ctx, refTokenKeyPrefix+ref)
}
