package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/token"
)

// identityKey is where the gate stores the authenticated identity.
const identityKey = "auth_identity"

// BlocklistChecker is the cache-side membership probe the gate consults.
// Implementations return false when the cache cannot answer; the check
// is an accelerator, never the authority.
type BlocklistChecker interface {
	IsBlocked(ctx context.Context, userID int64) bool
}

// AuthGate validates the bearer token on every request outside the
// public allowlist and attaches the decoded identity to the context.
// Rejections are plain-text 401 responses so no envelope machinery runs
// for unauthenticated traffic.
type AuthGate struct {
	codec        *token.Codec
	blocklist    BlocklistChecker
	publicPaths  map[string]struct{}
	publicPrefix []string
	log          *zap.Logger
}

// NewAuthGate creates the gate. publicPaths are matched exactly;
// publicPrefixes by prefix.
func NewAuthGate(codec *token.Codec, blocklist BlocklistChecker, publicPaths, publicPrefixes []string, log *zap.Logger) *AuthGate {
	paths := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		paths[p] = struct{}{}
	}
	return &AuthGate{
		codec:        codec,
		blocklist:    blocklist,
		publicPaths:  paths,
		publicPrefix: publicPrefixes,
		log:          log,
	}
}

func (g *AuthGate) isPublic(path string) bool {
	if _, ok := g.publicPaths[path]; ok {
		return true
	}
	for _, prefix := range g.publicPrefix {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func reject(c *gin.Context, message string) {
	c.Abort()
	c.String(http.StatusUnauthorized, message)
}

// Handler is the gin middleware entry point.
func (g *AuthGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Re-entrant dispatch must not re-run the checks.
		if _, exists := c.Get(identityKey); exists {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "authorization required")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			reject(c, "invalid authorization header")
			return
		}
		raw := authHeader[len(bearerPrefix):]

		claims, err := g.codec.Validate(raw)
		if err != nil {
			// Expired vs tampered matters for the logs only; the client
			// sees one rejection shape.
			if errors.Is(err, token.ErrTokenExpired) {
				g.log.Debug("expired token rejected", zap.String("path", c.Request.URL.Path))
			}
			reject(c, "invalid token")
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			// Unknown enum values never default to something permissive.
			g.log.Warn("token claims failed to decode", zap.Error(err))
			reject(c, "invalid token")
			return
		}

		if identity.Status != domain.StatusActive || identity.Verification != domain.VerificationVerified {
			reject(c, "account not active")
			return
		}

		if g.blocklist != nil && g.blocklist.IsBlocked(c.Request.Context(), identity.UserID) {
			reject(c, "account blocked")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity the gate attached, if any.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok
}
