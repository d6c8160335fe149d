// Package apierror defines the error taxonomy surfaced by the API.
// Every error that reaches a client is one of four kinds — validation,
// conflict, not-found or internal — and carries the HTTP code the response
// envelope mirrors. Internal details (stack traces, DB errors) never cross
// this boundary.
package apierror

import (
	"errors"
	"net/http"
)

// Error is a client-visible error. Code doubles as the HTTP status of the
// response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Validation: missing/malformed required fields, invalid enum, negative amount.
func Validation(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// Conflict: duplicate open shift on a register, closing an already-closed shift.
func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

// NotFound: shift/register/user context does not resolve.
func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

// Unauthorized: missing or invalid operator identity.
func Unauthorized(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

// Internal: storage failure or unexpected condition. The message is a fixed
// generic string; the real cause must be logged server-side, never returned.
func Internal() *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "Error interno del servidor"}
}

// From extracts the typed error from err, or wraps anything unexpected as a
// generic internal error so no detail leaks to the client.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal()
}

// IsInternal reports whether err maps to a 500 — callers use this to decide
// whether to log the underlying cause.
func IsInternal(err error) bool {
	var e *Error
	return !errors.As(err, &e) || e.Code == http.StatusInternalServerError
}
