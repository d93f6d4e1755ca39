package format

import (
	"errors"
	"fmt"
)

// ErrStrategyContract indicates a strategy that returned a different number
// of offsets than it was given.
var ErrStrategyContract = errors.New("strategy returned wrong number of offsets")

// ErrUnknownStrategy indicates a strategy name with no built-in.
var ErrUnknownStrategy = errors.New("unknown formatting strategy")

// PartitionError reports a partition whose formatting was abandoned.
type PartitionError struct {
	ContentType string
	Offset      int
	Length      int
	Err         error
}

// Error implements the error interface.
func (e *PartitionError) Error() string {
	return fmt.Sprintf("format %s partition [%d:%d): %v", e.ContentType, e.Offset, e.Offset+e.Length, e.Err)
}

// Unwrap returns the underlying error.
func (e *PartitionError) Unwrap() error {
	return e.Err
}
