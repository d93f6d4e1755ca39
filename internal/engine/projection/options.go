package projection

import (
	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/logging"
)

// Option configures a ChildDocument or Manager.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	docOpts []document.Option
}

func defaultOptions() options {
	return options{logger: logging.NullLogger}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDocumentOptions passes options to the child's document.
// Store-related options are ignored while the child is attached.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(o *options) {
		o.docOpts = append(o.docOpts, opts...)
	}
}
