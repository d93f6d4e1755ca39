package document

import (
	"github.com/dshills/textcore/internal/engine/gapbuffer"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/logging"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithText sets the initial content.
func WithText(text string) Option {
	return func(d *Document) {
		d.initText = text
	}
}

// WithStore makes the document read and write its text through store.
// The document's initial content is whatever store holds; WithText and
// WithWatermarks are ignored.
func WithStore(store TextStore) Option {
	return func(d *Document) {
		d.store = store
	}
}

// WithWatermarks sets the gap bounds of the document's gap buffer.
func WithWatermarks(low, high int) Option {
	return func(d *Document) {
		d.storeOpts = append(d.storeOpts, gapbuffer.WithWatermarks(low, high))
	}
}

// WithPartitioner installs a partitioner.
func WithPartitioner(p Partitioner) Option {
	return func(d *Document) {
		d.partitioner = p
	}
}

// WithFullOverlapPolicy sets what the default category's updater does with
// positions whose whole range is removed.
func WithFullOverlapPolicy(policy position.Policy) Option {
	return func(d *Document) {
		d.defaultPolicy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}
