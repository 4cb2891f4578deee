// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of client-visible failure.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTokenExpired       Code = "token_expired"
	CodeInvalidToken       Code = "invalid_token"
	CodeInternal           Code = "internal_error"
)

// Sentinels for errors.Is checks. Any *Error matches the sentinel with the same code.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "authentication required"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "you do not have permission to perform this action"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "already exists"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "token expired"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Message: "invalid token"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal server error"}
)

// Error is a domain failure carrying a taxonomy code and a client-safe message.
type Error struct {
	Code    Code
	Message string
	// Fields holds per-field validation messages.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Status maps the code to an HTTP status.
func (c Code) Status() int {
	switch c {
	case CodeValidation, CodeTokenExpired, CodeInvalidToken:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error { return newf(CodeValidation, format, args...) }
func NotFound(format string, args ...any) *Error   { return newf(CodeNotFound, format, args...) }
func Conflict(format string, args ...any) *Error   { return newf(CodeConflict, format, args...) }

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: ErrInternal.Message, Err: err}
}

// From returns the *Error in err's chain, or an internal error wrapping err.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
