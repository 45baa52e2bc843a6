package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id between client and server.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey stores the correlation id in the gin context.
	RequestIDKey = "request_id"

	// maxRequestIDLen bounds client-supplied ids; longer values are replaced.
	maxRequestIDLen = 128
)

// RequestID adopts the caller's correlation id or mints a fresh one, and
// echoes the final value on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := clientRequestID(c)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func clientRequestID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
	if len(id) > maxRequestIDLen {
		return ""
	}
	return id
}

// RequestIDFrom extracts the correlation id assigned by RequestID, if any.
func RequestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(RequestIDKey)
}
