// Package apperr carries the HTTP-facing error taxonomy shared by services
// and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure with a client-safe message and a status code.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches an underlying cause without changing what the client sees.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, Err: err}
}

func newError(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(http.StatusUnauthorized, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(http.StatusConflict, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return newError(http.StatusTooManyRequests, format, args...)
}

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong", Err: err}
}

// From returns err as an *Error, treating anything unknown as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// StatusOf returns the HTTP status carried by err.
func StatusOf(err error) int {
	return From(err).Status
}
