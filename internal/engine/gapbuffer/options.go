package gapbuffer

import "github.com/dshills/textcore/internal/logging"

// Default watermark values.
const (
	DefaultLowWatermark  = 32
	DefaultHighWatermark = 512
)

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithWatermarks sets the minimum and maximum gap size kept between
// reallocations. NewStore rejects low >= high.
func WithWatermarks(low, high int) Option {
	return func(s *Store) {
		s.lowWatermark = low
		s.highWatermark = high
	}
}

// WithLogger sets the logger used for reallocation diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
