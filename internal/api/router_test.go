package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rowcache/rowcache/internal/app"
	"github.com/rowcache/rowcache/internal/cache"
	"github.com/rowcache/rowcache/internal/database/testutil"
	"github.com/rowcache/rowcache/internal/monitoring"
	"github.com/rowcache/rowcache/internal/monitoring/checks"
	"github.com/rowcache/rowcache/pkg/response"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	store, err := cache.NewSQLStore(cache.SQLConfig{
		Client:   sqlDB,
		Database: "main",
		Dialect:  cache.DialectSQLite,
	})
	require.NoError(t, err)

	probes := monitoring.NewRegistry()
	probes.AddReadiness(checks.Database(db, time.Second))
	probes.AddReadiness(checks.Store(store, time.Second))

	cfg := &app.Config{}
	cfg.Monitoring.HealthCheck.Enabled = true
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"

	router, err := NewRouter(store, probes, cfg)
	require.NoError(t, err)
	return router
}

func TestRouterCacheLifecycle(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cache/session:42", strings.NewReader(`{"value":"{\"user\":42}","ttl_seconds":120}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cache/session:42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var payload response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	data := payload.Data.(map[string]any)
	require.Equal(t, `{"user":42}`, data["value"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	stats := payload.Data.(map[string]any)
	require.EqualValues(t, 1, stats["total_rows"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/cache/session:42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cache/session:42", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cache/flush", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Trigger a request so latency metrics exist.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "rowcache_api_latency_seconds")
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var payload response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, "NOT_FOUND", payload.Error.Code)
}

func TestRouterRequiresDependencies(t *testing.T) {
	cfg := &app.Config{}

	_, err := NewRouter(nil, monitoring.NewRegistry(), cfg)
	require.Error(t, err)

	store := cache.NewMemoryStore(cache.MemoryConfig{})
	_, err = NewRouter(store, nil, cfg)
	require.Error(t, err)

	_, err = NewRouter(store, monitoring.NewRegistry(), nil)
	require.Error(t, err)
}
