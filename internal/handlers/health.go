package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rowcache/rowcache/internal/monitoring"
	apperr "github.com/rowcache/rowcache/pkg/errors"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	registry *monitoring.Registry
}

// NewHealthHandler constructs the handler backing the /health routes.
func NewHealthHandler(registry *monitoring.Registry) (*HealthHandler, error) {
	if registry == nil {
		return nil, apperr.New("handlers: probe registry is required")
	}
	return &HealthHandler{registry: registry}, nil
}

// Overall merges liveness and readiness into a single report.
func (h *HealthHandler) Overall(c *gin.Context) {
	ctx := c.Request.Context()
	writeReport(c, monitoring.Combine(h.registry.Liveness(ctx), h.registry.Readiness(ctx)))
}

// Liveness reports whether the process itself is healthy.
func (h *HealthHandler) Liveness(c *gin.Context) {
	writeReport(c, h.registry.Liveness(c.Request.Context()))
}

// Readiness reports whether dependencies are able to serve traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	writeReport(c, h.registry.Readiness(c.Request.Context()))
}

func writeReport(c *gin.Context, report monitoring.Report) {
	status := http.StatusOK
	if !report.Success {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
