package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rowcache/rowcache/internal/app"
	"github.com/rowcache/rowcache/internal/cache"
	"github.com/rowcache/rowcache/internal/handlers"
	"github.com/rowcache/rowcache/internal/middleware"
	"github.com/rowcache/rowcache/internal/monitoring"
)

// NewRouter assembles the gin engine: recovery and observability middleware,
// the cache API, and the optional health and metrics endpoints.
func NewRouter(store cache.Store, probes *monitoring.Registry, cfg *app.Config) (*gin.Engine, error) {
	switch {
	case store == nil:
		return nil, fmt.Errorf("api: cache store is required")
	case probes == nil:
		return nil, fmt.Errorf("api: probe registry is required")
	case cfg == nil:
		return nil, fmt.Errorf("api: config is required")
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	r.NoRoute(middleware.NotFoundHandler)

	cacheHandler, err := handlers.NewCacheHandler(store)
	if err != nil {
		return nil, err
	}

	group := r.Group("/api/cache")
	group.GET("/stats", cacheHandler.Stats)
	group.POST("/flush", cacheHandler.Flush)
	group.GET("/:key", cacheHandler.Get)
	group.PUT("/:key", cacheHandler.Set)
	group.DELETE("/:key", cacheHandler.Delete)

	if cfg.Monitoring.HealthCheck.Enabled {
		healthHandler, err := handlers.NewHealthHandler(probes)
		if err != nil {
			return nil, err
		}
		r.GET("/health", healthHandler.Overall)
		r.GET("/health/live", healthHandler.Liveness)
		r.GET("/health/ready", healthHandler.Readiness)
	}

	if cfg.Monitoring.Prometheus.Enabled {
		r.GET(metricsEndpoint(cfg), gin.WrapH(promhttp.Handler()))
	}

	return r, nil
}

func metricsEndpoint(cfg *app.Config) string {
	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		return "/metrics"
	}
	return endpoint
}
