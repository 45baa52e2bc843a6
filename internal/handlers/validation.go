package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	apperr "github.com/rowcache/rowcache/pkg/errors"
	"github.com/rowcache/rowcache/pkg/response"
	"github.com/rowcache/rowcache/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct rules.
// On failure the error response has already been written and false comes back.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, apperr.BadRequest("invalid JSON payload"))
		return false
	}

	if err := validator.Validate(dest); err != nil {
		response.Error(c, apperr.BadRequest(validationMessage(err)))
		return false
	}

	return true
}

// validationMessage flattens field failures into one client-facing sentence
// per failed rule.
func validationMessage(err error) string {
	var failures validator.FieldErrors
	if !apperr.As(err, &failures) || len(failures) == 0 {
		return "invalid request payload"
	}

	parts := make([]string, 0, len(failures))
	for _, failure := range failures {
		parts = append(parts, describeFailure(failure))
	}
	return strings.Join(parts, "; ")
}

func describeFailure(failure validator.FieldError) string {
	field := humanField(failure.Field)

	switch failure.Rule {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, failure.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, failure.Param)
	}

	if failure.Param != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", field, failure.Rule, failure.Param)
	}
	return fmt.Sprintf("%s failed validation: %s", field, failure.Rule)
}

func humanField(name string) string {
	if name == "" {
		return "field"
	}
	return strings.ToLower(strings.ReplaceAll(name, "_", " "))
}
