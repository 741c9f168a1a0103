// Package apierr lets services pin an HTTP status and a taxonomy code
// (not_found, conflict, invalid_state, ...) onto an error without the
// handler layer re-deriving them. Handlers unwrap with errors.As and fall
// back to sentinel mapping when no *Error is present.
package apierr

import "fmt"

// Error carries the transport-facing status and code alongside the wrapped
// cause. The cause's message is what ends up in the response envelope.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with an explicit status and taxonomy code. Services use it
// when the default sentinel mapping would pick the wrong status.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
