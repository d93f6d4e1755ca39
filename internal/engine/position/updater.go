package position

// Policy selects what happens to a position whose whole range is removed.
type Policy uint8

const (
	// Delete marks the position deleted, collapses it to the edit offset
	// and removes it from its category.
	Delete Policy = iota

	// ClampToZero shrinks the position to zero length and keeps it.
	ClampToZero
)

// String returns a human-readable representation of the policy.
func (p Policy) String() string {
	switch p {
	case Delete:
		return "delete"
	case ClampToZero:
		return "clamp"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "delete", "":
		return Delete, true
	case "clamp", "clamp_to_zero":
		return ClampToZero, true
	default:
		return Delete, false
	}
}

// DefaultUpdater adjusts the positions of one category.
//
// Rules for a position P and an edit replacing [o, o+l) by text of length n:
//   - P entirely before the edit is unchanged.
//   - P entirely after the edit shifts by n-l.
//   - An edit strictly inside P changes only P's length, by n-l.
//   - A P inside the removed range (sharing at most one edge) is handled by
//     OnFullOverlap.
//   - Partial overlaps clip the removed part; inserted text at P's start
//     goes before P, inserted text inside P extends it.
//
// A zero-length position sitting at the edit offset or at the edit end
// moves to the end of the inserted text.
type DefaultUpdater struct {
	Category      Category
	OnFullOverlap Policy
}

// NewDefaultUpdater creates an updater for c with the Delete policy.
func NewDefaultUpdater(c Category) *DefaultUpdater {
	return &DefaultUpdater{Category: c}
}

// Update adjusts every position in the updater's category.
func (u *DefaultUpdater) Update(r *Registry, e Edit) {
	positions, err := r.Positions(u.Category)
	if err != nil {
		return
	}
	for _, p := range positions {
		if p.deleted {
			continue
		}
		if u.OnFullOverlap == Delete && swallowed(p, e) {
			p.deleted = true
			p.Offset = e.Offset
			p.Length = 0
			_ = r.RemovePosition(u.Category, p)
			continue
		}
		Adjust(p, e)
	}
}

// swallowed reports whether e removes all of p. A position whose exact
// text is replaced survives and covers the new text. A zero-length
// position is swallowed only strictly inside the removed range; at either
// edge it follows the forward bias.
func swallowed(p *Position, e Edit) bool {
	if p.Length == 0 {
		return e.Offset < p.Offset && p.Offset < e.End()
	}
	if p.Offset == e.Offset && p.End() == e.End() {
		return false
	}
	return e.Offset <= p.Offset && p.End() <= e.End()
}

// Adjust applies the replacement rules to p without ever deleting it.
func Adjust(p *Position, e Edit) {
	if p.Offset == e.Offset && p.Length == e.Length && p.Length > 0 {
		// The position's exact text was replaced; it now covers the new text.
		p.Length += len(e.Text) - e.Length
		if p.Length < 0 {
			p.Offset += p.Length
			p.Length = 0
		}
		return
	}
	if e.Length > 0 {
		adjustToRemove(p, e.Offset, e.Length)
	}
	if len(e.Text) > 0 {
		adjustToInsert(p, e.Offset, e.Length, len(e.Text))
	}
}

// lastByte returns the offset of the last byte of [offset, offset+length),
// or offset itself for empty ranges.
func lastByte(offset, length int) int {
	return max(offset, offset+length-1)
}

func adjustToRemove(p *Position, offset, length int) {
	myStart := p.Offset
	myEnd := lastByte(p.Offset, p.Length)
	yoursStart := offset
	yoursEnd := lastByte(offset, length)

	if myEnd < yoursStart {
		return
	}

	if myStart <= yoursStart {
		if yoursEnd <= myEnd {
			p.Length -= length
		} else {
			p.Length -= myEnd - yoursStart + 1
		}
	} else if yoursEnd < myStart {
		p.Offset -= length
	} else {
		p.Offset -= myStart - yoursStart
		p.Length -= yoursEnd - myStart + 1
	}

	p.Offset = max(p.Offset, 0)
	p.Length = max(p.Length, 0)
}

func adjustToInsert(p *Position, offset, removed, inserted int) {
	myStart := p.Offset
	myEnd := lastByte(p.Offset, p.Length)
	yoursStart := offset

	if myEnd < yoursStart {
		return
	}

	if removed <= 0 {
		if myStart < yoursStart {
			p.Length += inserted
		} else {
			p.Offset += inserted
		}
		return
	}

	if myStart <= yoursStart && p.Offset < yoursStart {
		p.Length += inserted
	} else {
		p.Offset += inserted
	}
}
