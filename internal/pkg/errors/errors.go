package errors

import "errors"

var (
	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on duplicate-id inserts.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks a transition the state machine does not allow.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
