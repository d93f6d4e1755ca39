package document

import "fmt"

// DefaultContentType is the content type of text no partitioner claims.
const DefaultContentType = "default"

// TypedRegion is a range of the document classified as one content type.
type TypedRegion struct {
	Offset int
	Length int
	Type   string
}

// End returns the exclusive end offset.
func (r TypedRegion) End() int {
	return r.Offset + r.Length
}

// String returns a human-readable representation of the region.
func (r TypedRegion) String() string {
	return fmt.Sprintf("%s[%d:%d)", r.Type, r.Offset, r.End())
}

// Partitioner splits a document's text into typed regions.
//
// Partition must return ordered, non-overlapping regions that together
// cover all of text, with no empty regions unless text is empty.
type Partitioner interface {
	Partition(text string) []TypedRegion
	ContentTypes() []string
}

// ComputePartitioning returns the typed regions covering
// [offset, offset+length), clipped to that range. A zero-length range
// yields one empty region typed like the partition containing offset.
func (d *Document) ComputePartitioning(offset, length int) ([]TypedRegion, error) {
	if !d.validRange(offset, length) {
		return nil, fmt.Errorf("%w: partitioning [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, d.Len())
	}

	if length == 0 {
		ct, err := d.ContentType(offset)
		if err != nil {
			return nil, err
		}
		return []TypedRegion{{Offset: offset, Type: ct}}, nil
	}

	if d.partitioner == nil {
		return []TypedRegion{{Offset: offset, Length: length, Type: DefaultContentType}}, nil
	}

	end := offset + length
	var out []TypedRegion
	for _, r := range d.partitioner.Partition(d.Get()) {
		start := max(r.Offset, offset)
		stop := min(r.End(), end)
		if start < stop {
			out = append(out, TypedRegion{Offset: start, Length: stop - start, Type: r.Type})
		}
	}
	return out, nil
}

// ContentType returns the content type at offset. The offset equal to
// the document length takes the type of the last region.
func (d *Document) ContentType(offset int) (string, error) {
	if offset < 0 || offset > d.Len() {
		return "", fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	if d.partitioner == nil {
		return DefaultContentType, nil
	}

	regions := d.partitioner.Partition(d.Get())
	for _, r := range regions {
		if offset < r.End() {
			return r.Type, nil
		}
	}
	if len(regions) > 0 {
		return regions[len(regions)-1].Type, nil
	}
	return DefaultContentType, nil
}

// LegalContentTypes returns every content type the partitioner can produce.
func (d *Document) LegalContentTypes() []string {
	if d.partitioner == nil {
		return []string{DefaultContentType}
	}
	return d.partitioner.ContentTypes()
}

// SetPartitioner installs p, replacing any previous partitioner.
func (d *Document) SetPartitioner(p Partitioner) {
	d.partitioner = p
}

// Partitioner returns the installed partitioner, or nil.
func (d *Document) Partitioner() Partitioner {
	return d.partitioner
}
