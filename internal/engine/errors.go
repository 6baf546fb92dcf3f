package engine

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies every failure the engine can produce. Handlers map a
// Kind to an HTTP status and never inspect store-specific errors.
type Kind string

const (
	KindValidationFailed    Kind = "validation_failed"
	KindUnauthenticated     Kind = "unauthenticated"
	KindUnauthorized        Kind = "unauthorized"
	KindNotFound            Kind = "not_found"
	KindInvalidReference    Kind = "invalid_reference"
	KindDuplicateEntry      Kind = "duplicate_entry"
	KindReferentialConflict Kind = "referential_conflict"
	KindNoFieldsToUpdate    Kind = "no_fields_to_update"
	KindInternal            Kind = "internal"
)

// Error is the engine's normalized error shape
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending input field for validation and
	// reference failures, empty otherwise
	Field string
	// Err is the underlying cause, suppressed outside development mode
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a normalized error with a caller-facing message
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// FieldError creates a normalized error naming the offending field
func FieldError(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// Normalize translates any error into the engine taxonomy. Store-layer
// constraint violations are recognized here, once, so they never leak
// store-specific codes to handlers.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: "record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindDuplicateEntry, Message: "a record with these values already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindReferentialConflict, Message: "operation blocked by a dependent record", Err: err}
	}

	// Fallback matching for drivers without gorm error translation
	// (the sqlite test store reports constraint failures as plain text).
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint"):
		return &Error{Kind: KindDuplicateEntry, Message: "a record with these values already exists", Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return &Error{Kind: KindReferentialConflict, Message: "operation blocked by a dependent record", Err: err}
	}

	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// HTTPStatus maps an error kind to its response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidationFailed, KindInvalidReference, KindNoFieldsToUpdate:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		// Ownership failures surface as 404 so callers cannot probe
		// whether a resource exists under another tenant.
		return http.StatusNotFound
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEntry, KindReferentialConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
