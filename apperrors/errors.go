package apperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies an application failure so the HTTP boundary can map
// it to a status code without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindStorage
	KindUnavailable
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is the one error type every layer raises. Err holds the
// wrapped cause for server-side logging; it is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation builds a validation error whose message joins the
// field:message pairs, e.g. "Validation failed: title: Title is required".
func NewValidation(fields []FieldError) *Error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return &Error{
		Kind:    KindValidation,
		Message: "Validation failed: " + strings.Join(parts, ", "),
		Fields:  fields,
	}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewStorage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: errors.WithStack(err)}
}

func NewUnavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: errors.WithStack(err)}
}

// KindOf extracts the Kind from any error in the chain, defaulting to
// KindUnknown for errors raised outside this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusCode maps a Kind to the HTTP status the error mapper emits.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
