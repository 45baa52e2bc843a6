package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperr "github.com/rowcache/rowcache/pkg/errors"
	"github.com/rowcache/rowcache/pkg/logger"
	"github.com/rowcache/rowcache/pkg/response"
)

// Recovery turns handler panics into a plain 500 envelope. The panic value
// and stack go to the log, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.WithComponent("http").Error("panic",
				zap.Any("panic", r),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", RequestIDFrom(c)),
				zap.Stack("stack"),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
				Error: &response.ErrorBody{
					Code:    apperr.ErrInternal.Code,
					Message: apperr.ErrInternal.Message,
				},
			})
		}()

		c.Next()
	}
}

// NotFoundHandler answers unrouted paths with the standard envelope.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.Envelope{
		Error: &response.ErrorBody{
			Code:    apperr.ErrNotFound.Code,
			Message: apperr.ErrNotFound.Message,
		},
	})
}
