package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipehub/internal/metrics"
	"recipehub/internal/microservices/http-api/handler"
	"recipehub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDeps() Deps {
	return Deps{
		Cookie:        handler.CookieOptions{Name: "recipehub_session"},
		CORSOrigins:   []string{"http://localhost:3000"},
		MaxImageBytes: 1024,
		Limiter:       middleware.NewIPRateLimiter(5, 10),
		Metrics:       metrics.New(),
		Checks: map[string]Checker{
			"postgres": func(context.Context) error { return nil },
		},
	}
}

func TestNewRouter_Routes(t *testing.T) {
	r := NewRouter(testDeps())

	got := make(map[string]bool)
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/logout",
		"GET /api/auth/me",
		"GET /api/auth/csrf",
		"GET /api/recipes",
		"GET /api/recipes/:recipe_id",
		"GET /api/me/recipes",
		"POST /api/recipes",
		"PUT /api/recipes/:recipe_id",
		"DELETE /api/recipes/:recipe_id",
		"POST /api/ratings",
		"GET /api/recipes/:recipe_id/ratings",
		"GET /api/recipes/:recipe_id/ratings/stats",
		"GET /api/recipes/:recipe_id/ratings/me",
		"DELETE /api/recipes/:recipe_id/ratings",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestNewRouter_ProtectedRoutesNeedSession(t *testing.T) {
	r := NewRouter(testDeps())

	for _, target := range []string{"/api/auth/me", "/api/me/recipes", "/api/recipes/1/ratings/me"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestNewRouter_NotFound(t *testing.T) {
	r := NewRouter(testDeps())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestHealthz(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRouter(testDeps()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DependencyDown", func(t *testing.T) {
		deps := testDeps()
		deps.Checks["redis"] = func(context.Context) error { return errors.New("dial tcp: refused") }

		w := httptest.NewRecorder()
		NewRouter(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Checks["postgres"])
		assert.Contains(t, body.Checks["redis"], "refused")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewRouter(testDeps())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "recipehub_http_requests_total"))

	deps := testDeps()
	deps.Metrics = nil
	w = httptest.NewRecorder()
	NewRouter(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLocalMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "soup.png"), []byte("png-bytes"), 0o644))

	deps := testDeps()
	deps.MediaDir = dir
	deps.MediaURL = "/media"

	w := httptest.NewRecorder()
	NewRouter(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/soup.png", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	deps := testDeps()
	deps.Limiter = middleware.NewIPRateLimiter(0.001, 1)
	r := NewRouter(deps)

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, login("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.2"))
}

func TestRateLimit_UsesForwardedForFromTrustedProxy(t *testing.T) {
	deps := testDeps()
	deps.Limiter = middleware.NewIPRateLimiter(0.001, 1)
	deps.TrustedProxies = []string{"192.0.2.1"} // httptest's default RemoteAddr
	r := NewRouter(deps)

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, client)
	}
}
