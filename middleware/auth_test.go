package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/temple-registry/config"
	"github.com/sharath018/temple-registry/internal/temple"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	handlers := []gin.HandlerFunc{AuthMiddleware(&config.Config{JWTAccessSecret: testSecret})}
	if len(roles) > 0 {
		handlers = append(handlers, RBACMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, caller)
	})
	r.GET("/me", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareSetsCaller(t *testing.T) {
	r := newAuthRouter()
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    "TempleAdmin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"templeadmin"`)
	assert.Contains(t, w.Body.String(), `"active"`)
	assert.Contains(t, w.Body.String(), "192.0.2.10")
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-jwt").Code)

	expired := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, get(r, expired).Code)

	noUser := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"role": "superadmin"})
	assert.Equal(t, http.StatusUnauthorized, get(r, noUser).Code)

	wrongAlg := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 7})
	assert.Equal(t, http.StatusUnauthorized, get(r, wrongAlg).Code)
}

func TestRBACMiddleware(t *testing.T) {
	r := newAuthRouter(RoleSuperAdmin)

	super := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "role": "superadmin"})
	assert.Equal(t, http.StatusOK, get(r, super).Code)

	admin := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7, "role": "templeadmin"})
	assert.Equal(t, http.StatusForbidden, get(r, admin).Code)

	suspended := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "role": "superadmin", "status": "suspended"})
	assert.Equal(t, http.StatusForbidden, get(r, suspended).Code)
}

func TestCallerFromClaims(t *testing.T) {
	caller, ok := callerFromClaims(jwt.MapClaims{"user_id": float64(3), "role": "SUPERADMIN", "status": "Inactive"})
	require.True(t, ok)
	assert.Equal(t, temple.Caller{ActorID: 3, Role: "superadmin", Status: "inactive"}, caller)

	_, ok = callerFromClaims(jwt.MapClaims{"user_id": "3"})
	assert.False(t, ok)
}

func TestGetClientIPPrefersForwardedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "10.0.0.1", getClientIP(c))

	c.Request.Header.Set("X-Real-Ip", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.2")
	assert.Equal(t, "203.0.113.5", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "198.51.100.2", getClientIP(c))
}

func TestAuditMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	const given = "6f1c2b9e-7d4a-4f53-9a1e-2c3d4e5f6a7b"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(requestIDHeader))
}
