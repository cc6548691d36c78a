package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/temple-registry/config"
	"github.com/sharath018/temple-registry/internal/auditlog"
	"github.com/sharath018/temple-registry/internal/media"
	"github.com/sharath018/temple-registry/internal/metrics"
	"github.com/sharath018/temple-registry/internal/temple"
)

const secret = "routes-test-secret"

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := media.NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	janitor := media.NewJanitor(store, media.JanitorOptions{Metrics: m})
	t.Cleanup(janitor.Close)

	auditSvc := auditlog.NewService(auditlog.NewMemoryRepository())
	coord := media.NewCoordinator(store, janitor, media.CoordinatorOptions{MaxUploadBytes: 1 << 20, Metrics: m})
	svc := temple.NewService(temple.NewMemoryRepository(), coord, auditSvc)
	svc.Metrics = m

	r := gin.New()
	Setup(r, Deps{
		Config:    &config.Config{JWTAccessSecret: secret, RateLimitPerMinute: 1000},
		Temples:   temple.NewHandler(svc, 1<<20),
		Audit:     auditlog.NewHandler(auditSvc),
		Registry:  reg,
		UploadDir: dir,
	})
	return r, dir
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID, "role": role}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func call(r *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStaticRoutesBesideTempleID(t *testing.T) {
	r, _ := newRouter(t)
	admin := token(t, 7, temple.RoleTempleAdmin)
	super := token(t, 1, temple.RoleSuperAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"public cards", http.MethodGet, "/api/v1/temples/public", "", http.StatusOK},
		{"list", http.MethodGet, "/api/v1/temples", "", http.StatusOK},
		{"unknown id", http.MethodGet, "/api/v1/temples/999", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/temples/abc", "", http.StatusBadRequest},
		{"unknown slug", http.MethodGet, "/api/v1/temples/slug/nope", "", http.StatusNotFound},
		{"admin/me needs token", http.MethodGet, "/api/v1/temples/admin/me", "", http.StatusUnauthorized},
		{"export needs token", http.MethodGet, "/api/v1/temples/export", "", http.StatusUnauthorized},
		{"admin/me without temple", http.MethodGet, "/api/v1/temples/admin/me", admin, http.StatusNotFound},
		{"export is superadmin only", http.MethodGet, "/api/v1/temples/export", admin, http.StatusForbidden},
		{"export", http.MethodGet, "/api/v1/temples/export?format=csv", super, http.StatusOK},
		{"verify is superadmin only", http.MethodPost, "/api/v1/temples/1/verify", admin, http.StatusForbidden},
		{"create needs token", http.MethodPost, "/api/v1/temples", "", http.StatusUnauthorized},
		{"audit logs", http.MethodGet, "/api/v1/audit-logs", super, http.StatusOK},
		{"audit stats", http.MethodGet, "/api/v1/audit-logs/stats", super, http.StatusOK},
		{"audit logs superadmin only", http.MethodGet, "/api/v1/audit-logs", admin, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.method, tt.path, tt.bearer)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestUploadsServing(t *testing.T) {
	r, dir := newRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	w := call(r, http.MethodGet, "/uploads/cover.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/uploads/missing.png", "").Code)
}
