package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/config"
	"threadline/internal/services"
)

const testJWTSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := services.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func newAuthedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewAuthService(&config.Config{SupabaseJWTSecret: testJWTSecret})

	r := gin.New()
	r.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		userID, _ := services.UserIDFromContext(c.Request.Context())
		c.String(http.StatusOK, userID.String())
	})
	return r
}

func TestAuthMiddleware_bearerToken(t *testing.T) {
	router := newAuthedRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestAuthMiddleware_accessTokenCookie(t *testing.T) {
	router := newAuthedRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: signTestToken(t, userID)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestAuthMiddleware_missingToken(t *testing.T) {
	router := newAuthedRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_malformedHeader(t *testing.T) {
	router := newAuthedRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abcdef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
