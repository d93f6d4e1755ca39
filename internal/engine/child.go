package engine

import "github.com/dshills/textcore/internal/engine/position"

// Child is a child document of an Engine. Its reads and edits take the
// engine's lock, so they are safe alongside any other Engine call.
//
// Child listeners run while the engine holds its write lock; they must use
// the ChildDocument returned by Document rather than Child methods.
type Child struct {
	e   *Engine
	doc *ChildDocument
}

// Document returns the underlying child document. Calls on it bypass the
// engine's lock.
func (c *Child) Document() *ChildDocument {
	return c.doc
}

// Text returns the child's content.
func (c *Child) Text() string {
	c.e.mu.RLock()
	defer c.e.mu.RUnlock()
	return c.doc.Get()
}

// TextRange returns length bytes of the child starting at offset.
func (c *Child) TextRange(offset, length int) (string, error) {
	c.e.mu.RLock()
	defer c.e.mu.RUnlock()
	return c.doc.GetRange(offset, length)
}

// Len returns the child's byte length.
func (c *Child) Len() int {
	c.e.mu.RLock()
	defer c.e.mu.RUnlock()
	return c.doc.Len()
}

// Replace edits the child; an attached child forwards the edit to the
// engine's document.
func (c *Child) Replace(offset, length int, text string) error {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	return c.doc.Replace(offset, length, text)
}

// Insert inserts text at offset in the child.
func (c *Child) Insert(offset int, text string) error {
	return c.Replace(offset, 0, text)
}

// Delete removes length bytes at offset in the child.
func (c *Child) Delete(offset, length int) error {
	return c.Replace(offset, length, "")
}

// ParentRange returns the window in the engine's document.
func (c *Child) ParentRange() (offset, length int) {
	c.e.mu.RLock()
	defer c.e.mu.RUnlock()
	return c.doc.ParentRange()
}

// SetParentDocumentRange moves the window.
func (c *Child) SetParentDocumentRange(offset, length int) error {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	return c.doc.SetParentDocumentRange(offset, length)
}

// IsAttached reports whether the child still follows the engine's document.
func (c *Child) IsAttached() bool {
	c.e.mu.RLock()
	defer c.e.mu.RUnlock()
	return c.doc.IsAttached()
}

// AddPosition starts tracking [offset, offset+length) of the child in
// DefaultCategory.
func (c *Child) AddPosition(offset, length int) (*Position, error) {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	p := position.New(offset, length)
	if err := c.doc.AddPosition(position.Default, p); err != nil {
		return nil, err
	}
	return p, nil
}
