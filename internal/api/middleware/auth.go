package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/response"
	"ctchen222/game-store/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the caller's identity on the context otherwise.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "token rejected", "error", err)
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present and
// lets the request through either way. An invalid token is still a 401.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		Authenticate(verifier)(c)
	}
}

// RequireRole answers 403 unless the authenticated caller holds one of roles.
// It must run after Authenticate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !auth.IsAuthorized(id.Role, roles...) {
			response.ErrorResponse(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
