// Package apperr provides the error taxonomy shared by every module.
//
// Services return *Error values; handlers translate them into HTTP
// responses through Code.HTTPStatus.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error class.
type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
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

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	// Fields carries per-field validation messages keyed by JSON name.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrValidation      = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "not authenticated"}
	ErrForbidden       = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "conflict"}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *Error { return New(CodeValidation, message) }

// ValidationFields builds a validation error carrying field details.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

func Forbidden(message string) *Error { return New(CodeForbidden, message) }

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func Conflict(message string) *Error { return New(CodeConflict, message) }

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
