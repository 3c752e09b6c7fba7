// Package apperr defines the error kinds surfaced to API clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Error is an application error carrying a client-facing message and HTTP status.
type Error struct {
	Kind    error
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Conflict creates a 409 error for a duplicate resource.
func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message, Status: http.StatusConflict}
}

// NotFound creates a 404 error for a missing or not-owned resource.
func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message, Status: http.StatusNotFound}
}

// BadRequest creates a 400 error for a business-rule violation.
func BadRequest(message string) *Error {
	return &Error{Kind: ErrBadRequest, Message: message, Status: http.StatusBadRequest}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message, Status: http.StatusForbidden}
}

// Internal wraps an unexpected failure as a 500 error.
func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Status: http.StatusInternalServerError, Err: err}
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for err. Errors that are not
// application errors never leak their text.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
