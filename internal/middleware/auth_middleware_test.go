package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, scope string, expires time.Time) string {
	t.Helper()
	claims := TokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(scopes ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewJWTMiddleware(logger.New(logger.ERROR), &DefaultTokenValidator{Secret: []byte(testSecret)})

	r := gin.New()
	r.POST("/reload", mw.RequireAuth(scopes...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(string(ContextUserIDKey))})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r := protectedRouter(ScopeAdmin)
	token := signToken(t, "ops-1", ScopeAdmin, time.Now().Add(time.Hour))

	w := doRequest(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ops-1")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	w := doRequest(protectedRouter(ScopeAdmin), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	r := protectedRouter(ScopeAdmin)
	token := signToken(t, "ops-1", ScopeAdmin, time.Now().Add(-time.Hour))

	w := doRequest(r, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InsufficientScope(t *testing.T) {
	r := protectedRouter(ScopeAdmin)
	token := signToken(t, "viewer-1", "read", time.Now().Add(time.Hour))

	w := doRequest(r, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MissingSubject(t *testing.T) {
	r := protectedRouter(ScopeAdmin)
	token := signToken(t, "", ScopeAdmin, time.Now().Add(time.Hour))

	w := doRequest(r, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
