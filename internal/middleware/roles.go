package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/response"
)

// RequireRoles restricts a route to the listed roles. It runs after the
// gate, so a missing identity means the route was misconfigured; that is
// still a 401, not a 500, to avoid leaking route topology.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.Abort()
			c.String(http.StatusUnauthorized, "authorization required")
			return
		}

		if _, ok := allowed[identity.Role]; !ok {
			response.Forbidden(c, "insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}
