package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/logging"
)

// Reformatter formats document regions with per-content-type strategies.
type Reformatter struct {
	strategies map[string]Strategy
	logger     *logging.Logger
}

// New creates a reformatter.
func New(opts ...Option) *Reformatter {
	r := &Reformatter{
		strategies: make(map[string]Strategy),
		logger:     logging.NullLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("format")
	return r
}

// SetStrategy registers s for contentType. A nil s removes the binding.
func (r *Reformatter) SetStrategy(contentType string, s Strategy) {
	if s == nil {
		delete(r.strategies, contentType)
		return
	}
	r.strategies[contentType] = s
}

// Strategy returns the strategy bound to contentType, or nil.
func (r *Reformatter) Strategy(contentType string) Strategy {
	return r.strategies[contentType]
}

// partition is one typed region whose span is tracked during a pass.
type partition struct {
	span        *position.Position
	contentType string
}

// Format formats every partition of [offset, offset+length) in order.
//
// Partitions without a strategy are left alone. When a strategy fails the
// pass stops with a *PartitionError; partitions formatted earlier keep
// their new text and the failed partition is unchanged.
func (r *Reformatter) Format(doc *document.Document, offset, length int) error {
	regions, err := doc.ComputePartitioning(offset, length)
	if err != nil {
		return err
	}

	tracked := position.NewPrivateCategory("partitioning")
	doc.AddCategory(tracked)
	spans := &position.DefaultUpdater{Category: tracked, OnFullOverlap: position.ClampToZero}
	doc.AddUpdater(spans)
	defer func() {
		doc.RemoveUpdater(spans)
		_ = doc.RemoveCategory(tracked)
	}()

	parts := make([]partition, 0, len(regions))
	for _, region := range regions {
		p := position.New(region.Offset, region.Length)
		if err := doc.AddPosition(tracked, p); err != nil {
			return err
		}
		parts = append(parts, partition{span: p, contentType: region.Type})
	}

	r.logger.Debug("formatting [%d:%d) in %d partitions", offset, offset+length, len(parts))
	for _, part := range parts {
		strategy := r.strategies[part.contentType]
		if strategy == nil {
			continue
		}
		if err := r.formatPartition(doc, tracked, part, strategy); err != nil {
			r.logger.Warn("abandoned formatting: %v", err)
			return err
		}
	}
	return nil
}

// FormatAll formats the whole document.
func (r *Reformatter) FormatAll(doc *document.Document) error {
	return r.Format(doc, 0, doc.Len())
}

func (r *Reformatter) formatPartition(doc *document.Document, tracked position.Category, part partition, strategy Strategy) error {
	partOffset, partLength := part.span.Offset, part.span.Length
	fail := func(err error) error {
		return &PartitionError{ContentType: part.contentType, Offset: partOffset, Length: partLength, Err: err}
	}

	text, err := doc.GetRange(partOffset, partLength)
	if err != nil {
		return fail(err)
	}

	refs := collectReferences(doc, tracked, partOffset, partLength)
	offsets := make([]int, len(refs))
	original := make(map[*position.Position]span, len(refs))
	for i, ref := range refs {
		offsets[i] = ref.Key() - partOffset
		original[ref.Position] = span{ref.Position.Offset, ref.Position.End()}
	}

	isLineStart, indentation, err := lineContext(doc, partOffset)
	if err != nil {
		return fail(err)
	}

	formatted, moved, err := strategy.Format(text, isLineStart, indentation, offsets)
	if err != nil {
		return fail(err)
	}
	if len(moved) != len(offsets) {
		return fail(fmt.Errorf("%w: got %d, want %d", ErrStrategyContract, len(moved), len(offsets)))
	}
	if formatted == text && slices.Equal(moved, offsets) {
		return nil
	}

	detach := &detachUpdater{refs: refs}
	reattach := &reattachUpdater{
		refs:       refs,
		offsets:    moved,
		original:   original,
		partOffset: partOffset,
		newLength:  len(formatted),
	}
	doc.InsertUpdater(detach, 0)
	doc.AddUpdater(reattach)
	defer func() {
		doc.RemoveUpdater(detach)
		doc.RemoveUpdater(reattach)
	}()

	if err := doc.Replace(partOffset, partLength, formatted); err != nil {
		if errors.Is(err, document.ErrOutOfRange) {
			panic(fmt.Sprintf("format: partition [%d:%d) outside document of %d bytes: %v",
				partOffset, partOffset+partLength, doc.Len(), err))
		}
		return fail(err)
	}

	r.logger.Debug("formatted %s partition [%d:%d) to %d bytes with %d references",
		part.contentType, partOffset, partOffset+partLength, len(formatted), len(refs))
	return nil
}

// lineContext reports whether only blanks precede offset on its line, and
// the line's leading blanks.
func lineContext(doc *document.Document, offset int) (bool, string, error) {
	line, err := doc.LineOfOffset(offset)
	if err != nil {
		return false, "", err
	}
	start, err := doc.LineOffset(line)
	if err != nil {
		return false, "", err
	}
	n, err := doc.LineLength(line)
	if err != nil {
		return false, "", err
	}
	text, err := doc.GetRange(start, n)
	if err != nil {
		return false, "", err
	}

	indentation := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
	isLineStart := offset-start <= len(indentation)
	return isLineStart, indentation, nil
}
