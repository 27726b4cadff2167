// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for the domain layer.
var (
	// ErrNotFound indicates a path identifier that does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates malformed input or an unresolvable reference.
	ErrValidation = errors.New("validation failed")
	// ErrMethodNotSupported indicates a verb that is not wired for a path.
	ErrMethodNotSupported = errors.New("method not supported")
)

// FieldErrors carries a per-field error mapping. It unwraps to ErrValidation
// so callers can match the whole class with errors.Is.
type FieldErrors struct {
	Fields map[string]string
}

// NewFieldError builds a FieldErrors for a single field.
func NewFieldError(field, message string) *FieldErrors {
	return &FieldErrors{Fields: map[string]string{field: message}}
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var fieldErrs *FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		ProblemFields(w, fieldErrs.Fields)
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrMethodNotSupported):
		Problem(w, http.StatusBadRequest, "Method Not Supported", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
