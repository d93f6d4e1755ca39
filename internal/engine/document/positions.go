package document

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/position"
)

// AddCategory registers a position category.
func (d *Document) AddCategory(c position.Category) {
	d.registry.AddCategory(c)
}

// RemoveCategory removes a category and its positions.
func (d *Document) RemoveCategory(c position.Category) error {
	return d.registry.RemoveCategory(c)
}

// ContainsCategory reports whether c is registered.
func (d *Document) ContainsCategory(c position.Category) bool {
	return d.registry.ContainsCategory(c)
}

// Categories returns the registered categories.
func (d *Document) Categories() []position.Category {
	return d.registry.Categories()
}

// AddPosition adds p to category c. The position must lie inside the
// document.
func (d *Document) AddPosition(c position.Category, p *position.Position) error {
	if !d.validRange(p.Offset, p.Length) {
		return fmt.Errorf("%w: position %s in %d bytes", ErrOutOfRange, p, d.Len())
	}
	return d.registry.AddPosition(c, p)
}

// RemovePosition removes p from category c.
func (d *Document) RemovePosition(c position.Category, p *position.Position) error {
	return d.registry.RemovePosition(c, p)
}

// Positions returns a snapshot of the positions in category c.
func (d *Document) Positions(c position.Category) ([]*position.Position, error) {
	return d.registry.Positions(c)
}

// ContainsPosition reports whether c holds a position with the given span.
func (d *Document) ContainsPosition(c position.Category, offset, length int) bool {
	return d.registry.ContainsPosition(c, offset, length)
}

// InsertUpdater inserts u into the updater chain at index.
func (d *Document) InsertUpdater(u position.Updater, index int) {
	d.registry.InsertUpdater(u, index)
}

// AddUpdater appends u to the updater chain.
func (d *Document) AddUpdater(u position.Updater) {
	d.registry.AddUpdater(u)
}

// RemoveUpdater removes u from the updater chain.
func (d *Document) RemoveUpdater(u position.Updater) {
	d.registry.RemoveUpdater(u)
}

// Updaters returns the updater chain in execution order.
func (d *Document) Updaters() []position.Updater {
	return d.registry.Updaters()
}
