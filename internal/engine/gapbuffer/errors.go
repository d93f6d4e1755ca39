package gapbuffer

import "errors"

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates an offset or length outside the stored text.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidConfiguration indicates unusable watermark bounds.
	ErrInvalidConfiguration = errors.New("invalid gap configuration")
)
