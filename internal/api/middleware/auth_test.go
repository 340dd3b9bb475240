package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]auth.Claims

func (s stubVerifier) Verify(token string) (*auth.Claims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorBoundary())
	handlers = append(handlers, func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email, "authenticated": ok})
	})
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{
		"user-token":  {Email: "alice@example.com", Role: models.RoleUser},
		"admin-token": {Email: "root@example.com", Role: models.RoleAdmin},
	}

	tests := []struct {
		name          string
		authorization string
		handlers      []gin.HandlerFunc
		want          int
	}{
		{"no header", "", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusUnauthorized},
		{"empty token", "Bearer ", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusUnauthorized},
		{"unknown token", "Bearer forged", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusUnauthorized},
		{"valid token", "Bearer user-token", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusOK},
		{"scheme is case-insensitive", "bearer user-token", []gin.HandlerFunc{Authenticate(verifier)}, http.StatusOK},
		{"user on admin route", "Bearer user-token", []gin.HandlerFunc{Authenticate(verifier), RequireRole(models.RoleAdmin)}, http.StatusForbidden},
		{"admin on admin route", "Bearer admin-token", []gin.HandlerFunc{Authenticate(verifier), RequireRole(models.RoleAdmin)}, http.StatusOK},
		{"role gate without identity", "", []gin.HandlerFunc{RequireRole(models.RoleAdmin)}, http.StatusUnauthorized},
		{"optional without header", "", []gin.HandlerFunc{OptionalAuth(verifier)}, http.StatusOK},
		{"optional with bad token", "Bearer forged", []gin.HandlerFunc{OptionalAuth(verifier)}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(tt.handlers...), tt.authorization)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestOptionalAuth_SetsIdentity(t *testing.T) {
	verifier := stubVerifier{"user-token": {Email: "alice@example.com", Role: models.RoleUser}}

	rec := serve(newRouter(OptionalAuth(verifier)), "Bearer user-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"alice@example.com","authenticated":true}`, rec.Body.String())

	rec = serve(newRouter(OptionalAuth(verifier)), "")
	assert.JSONEq(t, `{"email":"","authenticated":false}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	rec := serve(newRouter(), "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
