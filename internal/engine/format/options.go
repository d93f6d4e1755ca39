package format

import "github.com/dshills/textcore/internal/logging"

// Option configures a Reformatter.
type Option func(*Reformatter)

// WithStrategy registers s for contentType.
func WithStrategy(contentType string, s Strategy) Option {
	return func(r *Reformatter) {
		r.SetStrategy(contentType, s)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reformatter) {
		if l != nil {
			r.logger = l
		}
	}
}
