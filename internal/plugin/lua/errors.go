package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoFormatFunction is returned when a script defines no format function.
	ErrNoFormatFunction = errors.New("lua script defines no format function")

	// ErrBadResult is returned when format returns values of the wrong shape.
	ErrBadResult = errors.New("lua format returned an invalid result")
)
