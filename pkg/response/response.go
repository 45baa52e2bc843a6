package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/rowcache/rowcache/pkg/errors"
)

// Envelope is the JSON frame around every API payload. Success responses
// carry Data, failures carry Error; the two are never set together.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the client-visible slice of an API error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK writes a 200 envelope around data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope around data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error renders err as a failure envelope. Anything that is not an
// apperr.Error is reported as an internal error so raw details never
// reach clients.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = apperr.ErrInternal
	}

	apiErr := apperr.Convert(err)
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: apiErr.Code, Message: apiErr.Message},
	})
}
