package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, rol string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  uuid.NewString(),
		"username": "cajero1",
		"rol":      rol,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", middleware.JWTAuth(testSecret))
	if len(roles) > 0 {
		grp.Use(middleware.RequireRole(roles...))
	}
	grp.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	r := protectedRouter()
	w := get(r, signToken(t, "cajero", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := protectedRouter()
	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	r := protectedRouter()
	w := get(r, signToken(t, "cajero", -time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("otro-secreto"))
	require.NoError(t, err)

	r := protectedRouter()
	w := get(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	r := protectedRouter("supervisor", "administrador")
	w := get(r, signToken(t, "supervisor", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejects(t *testing.T) {
	r := protectedRouter("supervisor", "administrador")
	w := get(r, signToken(t, "cajero", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
