// Package errors classifies failures so handlers can pick a status code and
// a message that is safe to show an administrator.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the category handlers switch on.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	// ErrCodeUpstream marks a failure or rejection reported by the storefront backend.
	ErrCodeUpstream ErrorCode = "upstream"
)

// AppError pairs a code with a display message. Cause keeps the underlying
// error for logs and errors.Is; Field names the form input at fault.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Field   string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

func Conflict(message string) *AppError     { return newError(ErrCodeConflict, message) }
func Validation(message string) *AppError   { return newError(ErrCodeValidation, message) }
func Internal(message string) *AppError     { return newError(ErrCodeInternal, message) }
func Unauthorized(message string) *AppError { return newError(ErrCodeUnauthorized, message) }
func Forbidden(message string) *AppError    { return newError(ErrCodeForbidden, message) }

// ValidationField reports a validation failure on a single form field.
func ValidationField(field, message string) *AppError {
	e := newError(ErrCodeValidation, message)
	e.Field = field
	return e
}

// Upstream wraps a backend failure with the message to display.
func Upstream(err error, message string) *AppError {
	return Wrap(err, ErrCodeUpstream, message)
}

// Wrap attaches a code and message to err. It returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := asAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool     { return hasCode(err, ErrCodeNotFound) }
func IsConflict(err error) bool     { return hasCode(err, ErrCodeConflict) }
func IsValidation(err error) bool   { return hasCode(err, ErrCodeValidation) }
func IsForeignKey(err error) bool   { return hasCode(err, ErrCodeForeignKey) }
func IsInternal(err error) bool     { return hasCode(err, ErrCodeInternal) }
func IsTimeout(err error) bool      { return hasCode(err, ErrCodeTimeout) }
func IsCanceled(err error) bool     { return hasCode(err, ErrCodeCanceled) }
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }
func IsForbidden(err error) bool    { return hasCode(err, ErrCodeForbidden) }
func IsUpstream(err error) bool     { return hasCode(err, ErrCodeUpstream) }

// UserMessage returns the outermost AppError message without its cause, or
// fallback when err carries none.
func UserMessage(err error, fallback string) string {
	if appErr, ok := asAppError(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// GetCode returns the outermost AppError code, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the outermost AppError field, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}
