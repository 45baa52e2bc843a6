package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rowcache/rowcache/internal/monitoring"
)

func newHealthRouter(t *testing.T, registry *monitoring.Registry) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, err := NewHealthHandler(registry)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", handler.Overall)
	r.GET("/health/live", handler.Liveness)
	r.GET("/health/ready", handler.Readiness)
	return r
}

func TestHealthHandlerAllUp(t *testing.T) {
	registry := monitoring.NewRegistry()
	registry.AddReadiness(monitoring.Check{Name: "database", Run: func(ctx context.Context) monitoring.CheckResult {
		return monitoring.CheckResult{Status: monitoring.StatusUp}
	}})

	r := newHealthRouter(t, registry)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var report monitoring.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.True(t, report.Success, path)
	}
}

func TestHealthHandlerReadinessDown(t *testing.T) {
	registry := monitoring.NewRegistry()
	registry.AddReadiness(monitoring.Check{Name: "database", Run: func(ctx context.Context) monitoring.CheckResult {
		return monitoring.CheckResult{Status: monitoring.StatusDown, Details: "connection refused"}
	}})

	r := newHealthRouter(t, registry)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var report monitoring.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDown, report.Status)

	// Liveness stays healthy even when a dependency is down.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// The merged endpoint inherits the readiness failure.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
