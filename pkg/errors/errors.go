package errors

import (
	stderrors "errors"
	"net/http"
)

// Stdlib re-exports so callers need a single errors import.
func New(text string) error { return stderrors.New(text) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Error is the error shape the API hands to clients. Code and Message are
// safe to render; the wrapped cause is for logs only and never serialised.
type Error struct {
	Code    string
	Message string
	Status  int

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches by Code, so a wrapped copy still compares equal to the sentinel
// it was derived from.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// Wrap returns a copy of e carrying cause. Sentinels are never mutated.
func (e *Error) Wrap(cause error) *Error {
	if e == nil {
		return nil
	}
	dup := *e
	dup.cause = cause
	return &dup
}

// Define declares a reusable API error.
func Define(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// Sentinels shared by handlers and middleware.
var (
	ErrKeyNotFound = Define("CACHE_KEY_NOT_FOUND", "Cache key not found", http.StatusNotFound)
	ErrNotFound    = Define("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrBadRequest  = Define("BAD_REQUEST", "Invalid request", http.StatusBadRequest)
	ErrInternal    = Define("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrUnavailable = Define("SERVICE_UNAVAILABLE", "Service temporarily unavailable", http.StatusServiceUnavailable)
)

// BadRequest builds a 400 with a caller-supplied message.
func BadRequest(message string) *Error {
	return Define(ErrBadRequest.Code, message, http.StatusBadRequest)
}

// Convert coerces any error into an *Error. Errors that are not already an
// *Error become ErrInternal with the original attached as cause.
func Convert(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal.Wrap(err)
}
