package projection

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/logging"
)

// ErrUnknownChild indicates a child the manager did not create.
var ErrUnknownChild = errors.New("child document not managed")

// Manager creates child documents and keeps track of them per parent.
type Manager struct {
	children map[*document.Document][]*ChildDocument
	opts     []Option
	logger   *logging.Logger
}

// NewManager creates a manager. The options are applied to every child it
// creates.
func NewManager(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		children: make(map[*document.Document][]*ChildDocument),
		opts:     opts,
		logger:   o.logger.WithComponent("projection-manager"),
	}
}

// CreateChild creates a child showing [offset, offset+length) of parent.
func (m *Manager) CreateChild(parent *document.Document, offset, length int) (*ChildDocument, error) {
	child, err := New(parent, offset, length, m.opts...)
	if err != nil {
		return nil, err
	}
	m.children[parent] = append(m.children[parent], child)
	return child, nil
}

// FreeChild detaches child and forgets it.
func (m *Manager) FreeChild(child *ChildDocument) error {
	list := m.children[child.parent]
	for i, known := range list {
		if known != child {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(m.children, child.parent)
		} else {
			m.children[child.parent] = list
		}
		return child.Detach()
	}
	return ErrUnknownChild
}

// Children returns the managed children of parent.
func (m *Manager) Children(parent *document.Document) []*ChildDocument {
	list := m.children[parent]
	out := make([]*ChildDocument, len(list))
	copy(out, list)
	return out
}

// Close detaches every managed child.
func (m *Manager) Close() error {
	var errs []error
	for parent, list := range m.children {
		for _, child := range list {
			if err := child.Detach(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(m.children, parent)
	}
	if len(errs) > 0 {
		m.logger.Warn("detaching children failed: %v", errs)
	}
	return errors.Join(errs...)
}
