package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rowcache/rowcache/pkg/metrics"
)

// Metrics feeds the request latency histogram. Requests that matched no
// route share a single label so the series set stays bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPLatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(began).Seconds())
	}
}
