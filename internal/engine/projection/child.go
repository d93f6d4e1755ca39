package projection

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/gapbuffer"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/logging"
)

// ChildDocument is a document whose content is a window of a parent.
type ChildDocument struct {
	*document.Document

	parent   *document.Document
	window   *position.Position
	category position.Category
	updater  *windowUpdater
	listener *parentListener

	attached bool
	selfEdit bool
	pending  *pendingChange

	logger *logging.Logger
}

// pendingChange is the child-local view of a parent edit, recorded before
// the parent changes and consumed once when it has.
type pendingChange struct {
	seq          uint64
	childOffset  int
	childLength  int
	windowOffset int
	windowEnd    int
	editEnd      int
	delta        int
}

// New creates a child showing [offset, offset+length) of parent.
func New(parent *document.Document, offset, length int, opts ...Option) (*ChildDocument, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if offset < 0 || length < 0 || offset > parent.Len() || length > parent.Len()-offset {
		return nil, fmt.Errorf("%w: window [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, parent.Len())
	}

	c := &ChildDocument{
		parent:   parent,
		window:   position.New(offset, length),
		attached: true,
	}

	docOpts := append(o.docOpts, document.WithStore(&windowStore{child: c}), document.WithLogger(o.logger))
	doc, err := document.New(docOpts...)
	if err != nil {
		return nil, err
	}
	c.Document = doc
	c.logger = o.logger.WithComponent("projection").WithField("child", doc.ID().String())

	c.category = position.NewPrivateCategory("projection:" + doc.ID().String())
	parent.AddCategory(c.category)
	if err := parent.AddPosition(c.category, c.window); err != nil {
		_ = parent.RemoveCategory(c.category)
		return nil, err
	}
	c.updater = &windowUpdater{child: c}
	parent.AddUpdater(c.updater)
	c.listener = &parentListener{child: c}
	parent.AddPrenotifiedListener(c.listener)

	c.logger.Debug("attached to %s at [%d:%d)", parent.ID(), offset, offset+length)
	return c, nil
}

// Parent returns the parent document.
func (c *ChildDocument) Parent() *document.Document {
	return c.parent
}

// ParentRange returns the window in parent coordinates.
func (c *ChildDocument) ParentRange() (offset, length int) {
	return c.window.Offset, c.window.Length
}

// IsAttached reports whether the child still follows its parent.
func (c *ChildDocument) IsAttached() bool {
	return c.attached
}

// SetParentDocumentRange moves the window to [offset, offset+length) of
// the parent. Child listeners see the whole old content replaced.
func (c *ChildDocument) SetParentDocumentRange(offset, length int) error {
	if !c.attached {
		return ErrDetached
	}
	if offset < 0 || length < 0 || offset > c.parent.Len() || length > c.parent.Len()-offset {
		return fmt.Errorf("%w: window [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, c.parent.Len())
	}

	old := c.TrackedLen()
	prevOffset, prevLength := c.window.Offset, c.window.Length
	c.window.Offset = offset
	c.window.Length = length
	if err := c.ApplyStoreChange(0, old, c.Get()); err != nil {
		c.window.Offset = prevOffset
		c.window.Length = prevLength
		return err
	}
	return nil
}

// Detach stops following the parent. The child keeps a private copy of
// its current content and remains usable as a standalone document.
func (c *ChildDocument) Detach() error {
	if !c.attached {
		return nil
	}

	store, err := gapbuffer.NewStoreFromString(c.Get())
	if err != nil {
		return err
	}

	c.parent.RemovePrenotifiedListener(c.listener)
	c.parent.RemoveUpdater(c.updater)
	_ = c.parent.RemoveCategory(c.category)
	c.attached = false
	c.pending = nil

	if err := c.SwapStore(store); err != nil {
		return err
	}
	c.logger.Debug("detached from %s", c.parent.ID())
	return nil
}

// parentAboutToChange records the child-local view of a parent edit that
// touches the window.
func (c *ChildDocument) parentAboutToChange(e document.Event) {
	c.pending = nil
	if c.selfEdit {
		return
	}

	ro, re := c.window.Offset, c.window.End()
	o, l := e.Offset, e.Length
	overlaps := (l > 0 && o < re && o+l > ro) || (l == 0 && o > ro && o < re)
	if !overlaps {
		return
	}

	start := max(o, ro)
	end := min(o+l, re)
	c.pending = &pendingChange{
		seq:          e.Seq,
		childOffset:  start - ro,
		childLength:  max(0, end-start),
		windowOffset: ro,
		windowEnd:    re,
		editEnd:      o + l,
		delta:        e.NewLength() - l,
	}
}

// parentChanged replays a recorded parent edit into the child.
func (c *ChildDocument) parentChanged(e document.Event) {
	if c.selfEdit {
		return
	}

	p := c.pending
	c.pending = nil
	if p != nil && p.seq == e.Seq {
		c.replay(p)
	}

	if tracked := c.TrackedLen(); tracked != c.window.Length {
		c.logger.Debug("line tracker length %d differs from window length %d, resyncing",
			tracked, c.window.Length)
		c.ResyncLines()
	}
}

func (c *ChildDocument) replay(p *pendingChange) {
	oldLength := p.windowEnd - p.windowOffset
	newLength := c.window.Length
	inserted := newLength - oldLength + p.childLength

	// The bytes before the edit survive only if the window did not move,
	// and the bytes after it only if the window end moved with the edit.
	prefixKept := p.childOffset == 0 || c.window.Offset == p.windowOffset
	suffixKept := p.windowEnd <= p.editEnd || c.window.End() == p.windowEnd+p.delta
	if inserted < 0 || p.childOffset+inserted > newLength || !prefixKept || !suffixKept {
		c.logger.Debug("window moved irregularly, replacing whole child content")
		c.applyParentChange(0, c.TrackedLen(), c.Get())
		return
	}

	text, err := c.GetRange(p.childOffset, inserted)
	if err != nil {
		c.logger.Warn("reading replayed text failed: %v", err)
		c.applyParentChange(0, c.TrackedLen(), c.Get())
		return
	}
	c.applyParentChange(p.childOffset, p.childLength, text)
}

func (c *ChildDocument) applyParentChange(offset, length int, text string) {
	if err := c.ApplyStoreChange(offset, length, text); err != nil {
		c.logger.Warn("replaying parent change failed: %v", err)
	}
}

// parentListener forwards parent notifications to the child.
type parentListener struct {
	child *ChildDocument
}

func (l *parentListener) DocumentAboutToChange(e document.Event) {
	l.child.parentAboutToChange(e)
}

func (l *parentListener) DocumentChanged(e document.Event) {
	l.child.parentChanged(e)
}

// windowUpdater keeps the window in step with parent edits.
type windowUpdater struct {
	child *ChildDocument
}

func (u *windowUpdater) Update(_ *position.Registry, e position.Edit) {
	w := u.child.window
	if u.child.selfEdit {
		w.Length += e.Delta()
		return
	}
	position.Adjust(w, e)
}
