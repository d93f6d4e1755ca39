package position

import "fmt"

// Position is a tracked range over a document's content.
//
// Positions are shared by pointer: the registry adjusts the same value the
// caller holds, so callers read Offset and Length after each edit.
type Position struct {
	Offset int
	Length int

	deleted bool
}

// New creates a position covering [offset, offset+length).
func New(offset, length int) *Position {
	return &Position{Offset: offset, Length: length}
}

// End returns the exclusive end offset.
func (p *Position) End() int {
	return p.Offset + p.Length
}

// Overlaps reports whether p overlaps [offset, offset+length).
// A zero-length position overlaps a range it lies inside, including the
// range's start but not its end.
func (p *Position) Overlaps(offset, length int) bool {
	end := offset + length
	if p.Length > 0 {
		return p.Offset < end && offset < p.End()
	}
	return offset <= p.Offset && p.Offset < end
}

// Includes reports whether offset lies in [Offset, End).
func (p *Position) Includes(offset int) bool {
	if p.deleted {
		return false
	}
	return p.Offset <= offset && offset < p.End()
}

// IsDeleted reports whether an edit removed the text this position covered.
func (p *Position) IsDeleted() bool {
	return p.deleted
}

// Delete marks the position as deleted.
func (p *Position) Delete() {
	p.deleted = true
}

// Undelete clears the deleted mark.
func (p *Position) Undelete() {
	p.deleted = false
}

// String returns a human-readable representation of the position.
func (p *Position) String() string {
	if p.deleted {
		return fmt.Sprintf("[%d:%d) deleted", p.Offset, p.End())
	}
	return fmt.Sprintf("[%d:%d)", p.Offset, p.End())
}
