package document

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/gapbuffer"
	"github.com/dshills/textcore/internal/engine/position"
)

// Errors returned by document operations.
var (
	// ErrOutOfRange indicates an offset or length outside the document.
	ErrOutOfRange = gapbuffer.ErrOutOfRange

	// ErrInvalidConfiguration indicates unusable store settings.
	ErrInvalidConfiguration = gapbuffer.ErrInvalidConfiguration

	// ErrUnknownCategory indicates a position category that was never added.
	ErrUnknownCategory = position.ErrUnknownCategory

	// ErrPositionNotFound indicates a position absent from its category.
	ErrPositionNotFound = position.ErrPositionNotFound

	// ErrReentrantEdit indicates an edit requested while the document is
	// notifying listeners about another edit.
	ErrReentrantEdit = errors.New("document edited during change notification")

	// ErrStoreMismatch indicates a replacement store whose content length
	// differs from the document's.
	ErrStoreMismatch = errors.New("store length does not match document")
)
