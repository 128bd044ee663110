// Package apperr carries the error kinds the API maps onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation            Code = "VALIDATION_ERROR"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeForbidden             Code = "FORBIDDEN"
	CodeNotFound              Code = "NOT_FOUND"
	CodeInvalidState          Code = "INVALID_STATE"
	CodeInsufficientInventory Code = "INSUFFICIENT_INVENTORY"
	CodeRateLimited           Code = "RATE_LIMITED"
	CodeInternal              Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:            http.StatusBadRequest,
	CodeUnauthorized:          http.StatusUnauthorized,
	CodeForbidden:             http.StatusForbidden,
	CodeNotFound:              http.StatusNotFound,
	CodeInvalidState:          http.StatusBadRequest,
	CodeInsufficientInventory: http.StatusBadRequest,
	CodeRateLimited:           http.StatusTooManyRequests,
	CodeInternal:              http.StatusInternalServerError,
}

// Error is a typed failure with a client-facing message. Err, when set, is
// the underlying cause and is only exposed for internal errors.
type Error struct {
	code    Code
	message string
	err     error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{code: code, message: message, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Code() Code      { return e.code }
func (e *Error) Message() string { return e.message }

// HTTPStatus returns the response status for the error's code.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByCode[e.code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	e := As(err)
	return e != nil && e.code == code
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func InvalidState(message string) *Error { return New(CodeInvalidState, message) }
func RateLimited(message string) *Error  { return New(CodeRateLimited, message) }

func InsufficientInventory(message string) *Error {
	return New(CodeInsufficientInventory, message)
}

func Internal(message string, err error) *Error {
	return Wrap(CodeInternal, message, err)
}
