// Package httperr defines the error type handlers return when a failure
// should reach the client with a specific HTTP status and message.
//
// Handlers never format these errors themselves. They return them, and the
// central error handler (features/errors) turns them into a JSON response.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a client-safe message.
// Err, when set, is the underlying cause and is only logged.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with the given status and message.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Wrap attaches a status and message to an underlying error.
func Wrap(err error, status int, msg string) *Error {
	return &Error{Status: status, Message: msg, Err: err}
}

func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }

// StatusOf reports the status carried by err, or 500 if err is not an *Error.
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) && he.Status != 0 {
		return he.Status
	}
	return http.StatusInternalServerError
}
