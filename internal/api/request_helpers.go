package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// maxBodyBytes caps request bodies; the payloads this API accepts are tiny.
const maxBodyBytes = 1 << 20

// newValidator creates the validator used for request DTOs, configured to
// report JSON field names instead of Go struct field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v. Unknown fields are ignored,
// matching the patch semantics where extra payload fields (such as a
// client-supplied owner) carry no meaning.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// validationFieldErrors converts validator.ValidationErrors into the field
// list carried by a problem response.
func validationFieldErrors(err error) []shared.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []shared.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]shared.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, shared.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

// validationMessage renders one validator tag failure as a short
// human-readable message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must not be empty"
	default:
		return "is invalid"
	}
}

// respondValidationProblem writes the 422 problem used for every request
// validation failure.
func respondValidationProblem(w http.ResponseWriter, r *http.Request, fieldErrors []shared.FieldError) {
	shared.RespondWithProblem(w, r, http.StatusUnprocessableEntity,
		"Validation Error",
		"The request contains invalid or missing fields",
		fieldErrors)
}

// respondMalformedBody writes the 422 problem used when the request body is
// not valid JSON.
func respondMalformedBody(w http.ResponseWriter, r *http.Request) {
	respondValidationProblem(w, r, []shared.FieldError{
		{Field: "body", Message: "must be valid JSON"},
	})
}

// getPathID extracts a numeric ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}

	return id, nil
}

// Pagination query bounds.
const (
	defaultPage = 1
	defaultSize = 10
	maxSize     = 100
)

// parsePagination reads the page and size query parameters, applying the
// defaults and enforcing page >= 1 and 1 <= size <= 100. Violations are
// reported as field errors for a 422 response.
func parsePagination(r *http.Request) (page, size int, fieldErrors []shared.FieldError) {
	page, size = defaultPage, defaultSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "page", Message: "must be an integer greater than or equal to 1",
			})
		} else {
			page = v
		}
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxSize {
			fieldErrors = append(fieldErrors, shared.FieldError{
				Field: "size", Message: "must be an integer between 1 and 100",
			})
		} else {
			size = v
		}
	}

	return page, size, fieldErrors
}
