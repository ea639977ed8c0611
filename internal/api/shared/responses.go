package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Meta carries the correlation metadata attached to every success envelope.
type Meta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Envelope is the wrapper around every success payload.
type Envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PaginatedData is the data section of a paginated envelope.
type PaginatedData[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// FieldError is a single field-level validation failure inside a problem
// response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProblemDetails is the RFC 7807 style error body used for every non-2xx
// response. The request id mirrors the X-Request-ID header so errors can be
// correlated with server logs.
type ProblemDetails struct {
	Type      string       `json:"type"`
	Title     string       `json:"title"`
	Status    int          `json:"status"`
	Detail    string       `json:"detail"`
	Instance  string       `json:"instance"`
	Errors    []FieldError `json:"errors,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// problemTypes maps status codes to the problem type slug used in the type
// URI, following the /errors/<kind> convention.
var problemTypes = map[int]string{
	http.StatusBadRequest:          "bad-request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not-found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "validation-error",
	http.StatusInternalServerError: "internal-server-error",
}

// ProblemTypeURI returns the type URI for the given status code.
func ProblemTypeURI(status int) string {
	slug, ok := problemTypes[status]
	if !ok {
		slug = "error"
	}
	return "/errors/" + slug
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondEnvelope wraps the payload in a success envelope carrying the
// request's correlation ID and writes it with the given status.
func RespondEnvelope[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	RespondWithJSON(w, r, status, Envelope[T]{
		Data: data,
		Meta: Meta{
			RequestID: GetRequestID(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	})
}

// RespondPaginated writes a paginated success envelope with the given items
// and page window.
func RespondPaginated[T any](w http.ResponseWriter, r *http.Request, items []T, p Pagination) {
	if items == nil {
		items = []T{}
	}
	RespondEnvelope(w, r, http.StatusOK, PaginatedData[T]{
		Items:      items,
		Pagination: p,
	})
}

// RespondWithProblem writes an RFC 7807 problem response. The detail is the
// caller-safe message; anything sensitive must be logged by the caller, not
// passed here. fieldErrors is only populated for validation failures.
func RespondWithProblem(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	title, detail string,
	fieldErrors []FieldError,
) {
	requestID := GetRequestID(r.Context())

	problem := ProblemDetails{
		Type:      ProblemTypeURI(status),
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  r.URL.Path,
		Errors:    fieldErrors,
		RequestID: requestID,
	}

	slog.Debug("sending problem response",
		"status_code", status,
		"title", title,
		"request_id", requestID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, problem)
}
