package engine

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/format"
	"github.com/dshills/textcore/internal/engine/projection"
)

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates an offset or length outside the document.
	ErrOutOfRange = document.ErrOutOfRange

	// ErrInvalidConfiguration indicates unusable store settings.
	ErrInvalidConfiguration = document.ErrInvalidConfiguration

	// ErrUnknownCategory indicates a position category that was never added.
	ErrUnknownCategory = document.ErrUnknownCategory

	// ErrPositionNotFound indicates a position not registered in its category.
	ErrPositionNotFound = document.ErrPositionNotFound

	// ErrReentrantEdit indicates an edit issued from inside a change notification.
	ErrReentrantEdit = document.ErrReentrantEdit

	// ErrDetached indicates an operation on a detached child document.
	ErrDetached = projection.ErrDetached

	// ErrStrategyContract indicates a strategy returned the wrong number of offsets.
	ErrStrategyContract = format.ErrStrategyContract

	// ErrUnknownStrategy indicates a strategy name with no implementation.
	ErrUnknownStrategy = format.ErrUnknownStrategy

	// ErrClosed indicates an operation on a closed engine.
	ErrClosed = errors.New("engine is closed")
)

// PartitionError reports the partition a formatting pass stopped at.
type PartitionError = format.PartitionError
