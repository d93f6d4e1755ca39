package position

import "errors"

// Errors returned by registry operations.
var (
	// ErrUnknownCategory indicates a category that was never added.
	ErrUnknownCategory = errors.New("unknown position category")

	// ErrPositionNotFound indicates a position absent from its category.
	ErrPositionNotFound = errors.New("position not found")
)
