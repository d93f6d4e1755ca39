package format

import (
	"sort"

	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/position"
)

// Edge selects which end of a position a Reference stands for.
type Edge uint8

const (
	// StartEdge refers to a position's offset.
	StartEdge Edge = iota
	// EndEdge refers to a position's end.
	EndEdge
)

// Reference is a weak handle on one edge of a tracked position.
type Reference struct {
	Edge     Edge
	Position *position.Position
	Category position.Category
}

// Key returns the current absolute offset of the referenced edge.
func (r Reference) Key() int {
	if r.Edge == StartEdge {
		return r.Position.Offset
	}
	return r.Position.End()
}

// span is a position's extent before the edit that relocates it.
type span struct {
	start, end int
}

// owned identifies a position within one category.
type owned struct {
	category position.Category
	position *position.Position
}

// collectReferences returns the edges of positions that lie strictly
// inside [offset, offset+length), sorted by offset with start edges first
// on ties. A position spanning exactly the partition contributes both
// edges. Edges on a partition boundary, including zero-length positions
// there, are left to the ordinary updaters.
func collectReferences(doc *document.Document, skip position.Category, offset, length int) []Reference {
	end := offset + length
	var refs []Reference

	for _, c := range doc.Categories() {
		if c == skip {
			continue
		}
		positions, err := doc.Positions(c)
		if err != nil {
			continue
		}
		for _, p := range positions {
			if p.IsDeleted() {
				continue
			}
			if length > 0 && p.Offset == offset && p.End() == end {
				refs = append(refs,
					Reference{Edge: StartEdge, Position: p, Category: c},
					Reference{Edge: EndEdge, Position: p, Category: c})
				continue
			}
			if offset < p.Offset && p.Offset < end {
				refs = append(refs, Reference{Edge: StartEdge, Position: p, Category: c})
			}
			if offset < p.End() && p.End() < end {
				refs = append(refs, Reference{Edge: EndEdge, Position: p, Category: c})
			}
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		ki, kj := refs[i].Key(), refs[j].Key()
		if ki != kj {
			return ki < kj
		}
		return refs[i].Edge == StartEdge && refs[j].Edge == EndEdge
	})
	return refs
}

// detachUpdater takes referenced positions out of their categories before
// the standard updaters run, so only reattachUpdater moves them.
type detachUpdater struct {
	refs []Reference
}

func (u *detachUpdater) Update(r *position.Registry, _ position.Edit) {
	for _, ref := range u.refs {
		// Already removed for the position's other edge.
		_ = r.RemovePosition(ref.Category, ref.Position)
	}
}

// reattachUpdater moves referenced edges to the offsets the strategy chose
// and puts each position back into its category exactly once.
type reattachUpdater struct {
	refs       []Reference
	offsets    []int
	original   map[*position.Position]span
	partOffset int
	newLength  int
}

func (u *reattachUpdater) Update(r *position.Registry, e position.Edit) {
	starts := make(map[*position.Position]int)
	ends := make(map[*position.Position]int)
	for i, ref := range u.refs {
		abs := u.partOffset + min(max(u.offsets[i], 0), u.newLength)
		if ref.Edge == StartEdge {
			starts[ref.Position] = abs
		} else {
			ends[ref.Position] = abs
		}
	}

	done := make(map[owned]bool)
	for _, ref := range u.refs {
		key := owned{ref.Category, ref.Position}
		if done[key] {
			continue
		}
		done[key] = true

		p := ref.Position
		orig := u.original[p]
		start, ok := starts[p]
		if !ok {
			start = orig.start
		}
		end, ok := ends[p]
		if !ok {
			end = orig.end + e.Delta()
		}
		p.Offset = start
		p.Length = max(end-start, 0)
		_ = r.AddPosition(ref.Category, p)
	}
}
