// Package apperr defines the error taxonomy shared by every service and the
// HTTP error handler that maps it onto status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeForbidden       Code = "forbidden"
	CodeNotFound        Code = "not_found"
	CodeValidation      Code = "validation"
	CodeConflict        Code = "conflict"
	CodeUnprocessable   Code = "unprocessable"
	CodeInternal        Code = "internal"
)

// Error is a categorized service error. The message is safe to return to the
// caller verbatim.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return newf(CodeUnauthenticated, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(CodeForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(CodeNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(CodeValidation, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(CodeConflict, format, args...)
}

func Unprocessable(format string, args ...interface{}) *Error {
	return newf(CodeUnprocessable, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return newf(CodeInternal, format, args...)
}

// HTTPStatus maps an error code to its response status. Conflict surfaces as
// 400 to preserve the original wire behavior (duplicate email etc. were plain
// business-rule failures); the code remains visible in the response body.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
