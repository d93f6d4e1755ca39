package projection

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/document"
)

var (
	// ErrOutOfRange indicates a window outside the parent document.
	ErrOutOfRange = document.ErrOutOfRange

	// ErrDetached indicates an operation that needs an attached child.
	ErrDetached = errors.New("child document is detached")
)
