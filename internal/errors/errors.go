// Package errors provides coded domain errors for the alert dashboard.
//
// Usage:
//
//	// In the pipeline - return typed errors
//	if _, err := os.Stat(alertsPath); err != nil {
//	    return errors.MissingAlertsDirf("no %q directory in archive", name)
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNoExtraction) {
//	    renderUploadForm(w)
//	    return
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeInvalidArchive   Code = "INVALID_ARCHIVE"
	CodeMissingAlertsDir Code = "MISSING_ALERTS_DIR"
	CodeMalformedJSON    Code = "MALFORMED_JSON"
	CodeNoExtraction     Code = "NO_EXTRACTION"
	CodeTooLarge         Code = "TOO_LARGE"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeNoExtraction:
		return http.StatusNotFound
	case CodeValidation, CodeInvalidArchive:
		return http.StatusBadRequest
	case CodeMissingAlertsDir, CodeMalformedJSON:
		return http.StatusUnprocessableEntity
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInvalidArchive   = &Error{Code: CodeInvalidArchive, Message: "invalid zip archive"}
	ErrMissingAlertsDir = &Error{Code: CodeMissingAlertsDir, Message: "alerts directory not found in archive"}
	ErrMalformedJSON    = &Error{Code: CodeMalformedJSON, Message: "malformed alert file"}
	ErrNoExtraction     = &Error{Code: CodeNoExtraction, Message: "no archive has been uploaded"}
	ErrTooLarge         = &Error{Code: CodeTooLarge, Message: "archive too large"}
	ErrRateLimited      = &Error{Code: CodeRateLimited, Message: "too many uploads"}
)

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// MissingAlertsDirf creates a missing alerts directory error with formatted message.
func MissingAlertsDirf(format string, args ...any) *Error {
	return &Error{Code: CodeMissingAlertsDir, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first domain error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
