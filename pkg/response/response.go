// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	Field       string               `json:"field,omitempty"`
	Value       string               `json:"value,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	if status, payload, ok := mapQueryError(err); ok {
		return status, payload
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorPayload{Error: "invalid_credentials"}
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorPayload{Error: "unauthorized"}
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, ErrorPayload{Error: "weak_password", Message: "password must be at least 8 characters"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// mapQueryError shapes the statistics query error kinds. Validation kinds
// carry the offending field and value so clients get a precise message.
func mapQueryError(err error) (int, ErrorPayload, bool) {
	var code string
	var status int
	switch {
	case errors.Is(err, query.ErrInvalidFilterKey):
		status, code = http.StatusBadRequest, "invalid_filter_key"
	case errors.Is(err, query.ErrInvalidFilterValue):
		status, code = http.StatusBadRequest, "invalid_filter_value"
	case errors.Is(err, query.ErrInvalidGroupKey):
		status, code = http.StatusBadRequest, "invalid_group_key"
	case errors.Is(err, query.ErrEmptyQuery):
		status, code = http.StatusBadRequest, "empty_query"
	case errors.Is(err, query.ErrResultTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "result_too_large"
	case errors.Is(err, query.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "query_timeout"
	case errors.Is(err, query.ErrStoreUnavailable):
		status, code = http.StatusServiceUnavailable, "store_unavailable"
	default:
		return 0, ErrorPayload{}, false
	}

	payload := ErrorPayload{Error: code}
	if field, value, message, ok := query.Detail(err); ok {
		payload.Field = field
		payload.Value = value
		payload.Message = message
	}
	return status, payload, true
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
