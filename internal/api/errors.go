// Package api implements the HTTP handlers and the boundary where internal
// errors become problem-details responses.
package api

import (
	"errors"
	"net/http"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/redact"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors. Ownership misses and soft-deleted rows surface as
	// store.ErrTaskNotFound, so they land here rather than on 403.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Unexpected errors get a generic message; their detail
// is logged server-side only.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Incorrect email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Authentication credentials were missing or invalid"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return "The request contains invalid or missing fields"

	default:
		return "An unexpected error occurred. Please try again later."
	}
}

// statusTitles maps the status codes this API uses to problem titles.
var statusTitles = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Validation Error",
	http.StatusInternalServerError: "Internal Server Error",
}

// HandleServiceError translates an error returned by a service call into a
// problem response. Validation errors carry their field list; internal
// errors are logged in full (redacted) and answered with a generic body.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	title, ok := statusTitles[status]
	if !ok {
		title = "Error"
	}

	var fieldErrors []shared.FieldError
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		fieldErrors = []shared.FieldError{
			{Field: validationErr.Field, Message: validationErr.Message},
		}
	}

	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context())
		log.Error("unhandled error while serving request",
			"error", redact.Error(err),
			"path", r.URL.Path,
			"method", r.Method)
	}

	shared.RespondWithProblem(w, r, status, title, GetSafeErrorMessage(err), fieldErrors)
}
