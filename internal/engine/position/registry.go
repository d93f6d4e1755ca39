package position

import "fmt"

// Edit describes a replacement of Length bytes at Offset by Text.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// Delta returns the change in document length caused by the edit.
func (e Edit) Delta() int {
	return len(e.Text) - e.Length
}

// End returns the exclusive end of the replaced range.
func (e Edit) End() int {
	return e.Offset + e.Length
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("replace [%d:%d) with %d bytes", e.Offset, e.End(), len(e.Text))
}

// Updater adjusts positions in response to an edit.
//
// Update runs after the text has changed and before listeners hear about
// it. Implementations must be comparable (typically pointers) so that they
// can be removed from the chain.
type Updater interface {
	Update(r *Registry, e Edit)
}

// Registry holds position categories and the ordered updater chain.
type Registry struct {
	order     []Category
	positions map[Category][]*Position
	updaters  []Updater
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		positions: make(map[Category][]*Position),
	}
}

// AddCategory registers a category. Adding a known category is a no-op.
func (r *Registry) AddCategory(c Category) {
	if _, ok := r.positions[c]; ok {
		return
	}
	r.order = append(r.order, c)
	r.positions[c] = nil
}

// RemoveCategory removes a category and all of its positions.
func (r *Registry) RemoveCategory(c Category) error {
	if _, ok := r.positions[c]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	delete(r.positions, c)
	for i, known := range r.order {
		if known == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ContainsCategory reports whether c has been added.
func (r *Registry) ContainsCategory(c Category) bool {
	_, ok := r.positions[c]
	return ok
}

// Categories returns the known categories in the order they were added.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.order))
	copy(out, r.order)
	return out
}

// AddPosition adds p to category c. Adding a position already present in
// c is a no-op.
func (r *Registry) AddPosition(c Category, p *Position) error {
	list, ok := r.positions[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	for _, known := range list {
		if known == p {
			return nil
		}
	}
	r.positions[c] = append(list, p)
	return nil
}

// RemovePosition removes p from category c.
func (r *Registry) RemovePosition(c Category, p *Position) error {
	list, ok := r.positions[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	for i, known := range list {
		if known == p {
			r.positions[c] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrPositionNotFound, p, c)
}

// Positions returns a snapshot of the positions in category c.
// The slice is a copy; the positions are shared.
func (r *Registry) Positions(c Category) ([]*Position, error) {
	list, ok := r.positions[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	out := make([]*Position, len(list))
	copy(out, list)
	return out, nil
}

// ContainsPosition reports whether category c holds a position with exactly
// the given offset and length.
func (r *Registry) ContainsPosition(c Category, offset, length int) bool {
	for _, p := range r.positions[c] {
		if p.Offset == offset && p.Length == length {
			return true
		}
	}
	return false
}

// InsertUpdater inserts u at index in the chain. Indices past the end
// append; negative indices insert at the front.
func (r *Registry) InsertUpdater(u Updater, index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(r.updaters) {
		r.updaters = append(r.updaters, u)
		return
	}
	r.updaters = append(r.updaters, nil)
	copy(r.updaters[index+1:], r.updaters[index:])
	r.updaters[index] = u
}

// AddUpdater appends u to the chain.
func (r *Registry) AddUpdater(u Updater) {
	r.updaters = append(r.updaters, u)
}

// RemoveUpdater removes the first occurrence of u. Unknown updaters are
// ignored.
func (r *Registry) RemoveUpdater(u Updater) {
	for i, known := range r.updaters {
		if known == u {
			r.updaters = append(r.updaters[:i], r.updaters[i+1:]...)
			return
		}
	}
}

// Updaters returns a copy of the chain in execution order.
func (r *Registry) Updaters() []Updater {
	out := make([]Updater, len(r.updaters))
	copy(out, r.updaters)
	return out
}

// Update runs every updater in chain order.
// The chain is captured before the first updater runs, so updaters that
// modify the chain take effect on the next edit.
func (r *Registry) Update(e Edit) {
	chain := r.Updaters()
	for _, u := range chain {
		u.Update(r, e)
	}
}
