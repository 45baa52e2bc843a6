package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rowcache/rowcache/pkg/logger"
)

// Logger emits one structured access log line per request. Responses with a
// 5xx status log at error level so they stand out of the access stream.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(began)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", RequestIDFrom(c)),
		}

		access := logger.WithComponent("http")
		if status >= http.StatusInternalServerError {
			access.Error("request", fields...)
			return
		}
		access.Info("request", fields...)
	}
}
