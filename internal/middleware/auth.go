package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chama_fund/internal/auth"
	"chama_fund/internal/models"
)

const identityKey = "identity"

// authenticate verifies the bearer token and stores the resolved identity on
// the context. On failure it aborts the request with 401 and reports false;
// it never advances the handler chain itself.
func authenticate(c *gin.Context, tm *auth.TokenManager) (auth.Identity, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid Authorization header"})
		return auth.Identity{}, false
	}

	ident, err := tm.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return auth.Identity{}, false
	}

	c.Set(identityKey, ident)
	return ident, true
}

// RequireAuth verifies the bearer token and attaches the resolved identity
// to the request context. Missing or bad tokens end the request with 401.
func RequireAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, tm); !ok {
			return
		}
		c.Next()
	}
}

// RequireRoles authenticates and then checks the identity's role against the
// allowed set for the route. The chain only advances once both checks have
// passed; a role mismatch aborts with 403 before any controller runs.
func RequireRoles(tm *auth.TokenManager, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := authenticate(c, tm)
		if !ok {
			return
		}

		for _, role := range allowed {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": fmt.Sprintf("role %q is not allowed to perform this operation", ident.Role),
		})
	}
}

// CurrentIdentity returns the identity stored by RequireAuth. It panics when
// called from an unauthenticated route, which is a wiring bug.
func CurrentIdentity(c *gin.Context) auth.Identity {
	return c.MustGet(identityKey).(auth.Identity)
}
