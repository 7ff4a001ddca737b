// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/roster-stats-service/internal/service"
)

// ErrorPayload is the canonical error envelope for failures raised outside a Result
// (bad path parameters, malformed bodies, argument-contract violations).
type ErrorPayload struct {
	Error       string              `json:"error"`
	Message     string              `json:"message,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// MapError converts an error returned next to a Result into an HTTP status and payload.
// Expected failures never get here; they travel inside the Result.
func MapError(err error) (int, ErrorPayload) {
	switch {
	case err == nil:
		return http.StatusOK, ErrorPayload{Error: "ok"}
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_argument", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorPayload{Error: "timeout"}
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, ErrorPayload{Error: "canceled"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// Status picks the HTTP status for a Result. ok is used on success.
func Status[T any](r service.Result[T], ok int) int {
	if r.Success {
		return ok
	}
	if r.IsValidationFailure() {
		return http.StatusBadRequest
	}
	if len(r.ErrorMessages) == 0 {
		return http.StatusInternalServerError
	}
	msg := r.ErrorMessages[0]
	switch {
	case strings.HasSuffix(msg, "could not be found."):
		return http.StatusNotFound
	case msg == service.MsgIDMismatch:
		return http.StatusBadRequest
	case msg == service.MsgConcurrencyConflict, msg == service.MsgRelatedMissing:
		return http.StatusConflict
	case strings.HasPrefix(msg, "Unable to delete"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteResult writes either the error mapped from err or the Result envelope.
func WriteResult[T any](c *gin.Context, ok int, r service.Result[T], err error) {
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(Status(r, ok), r)
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteBadRequest rejects input that could not even be decoded.
func WriteBadRequest(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorPayload{
		Error:       "invalid_input",
		Message:     "one or more fields are invalid",
		FieldErrors: map[string][]string{field: {msg}},
	})
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
