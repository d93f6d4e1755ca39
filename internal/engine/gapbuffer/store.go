package gapbuffer

import (
	"fmt"
	"strings"

	"github.com/dshills/textcore/internal/logging"
)

// noGap marks both gap pointers after Set, when no edit locality is known.
const noGap = -1

// Stats reports how much copying the store has done.
type Stats struct {
	Reallocations int // backing slice replaced
	BytesMoved    int // bytes copied while moving the gap or reallocating
}

// Store is a gap buffer holding the text of one document.
//
// The logical text is content[:gapStart] followed by content[gapEnd:].
// After every Replace the gap size lies within [lowWatermark, highWatermark].
type Store struct {
	content  []byte
	gapStart int
	gapEnd   int

	lowWatermark  int
	highWatermark int

	stats  Stats
	logger *logging.Logger
}

// NewStore creates an empty store.
// Returns ErrInvalidConfiguration unless 0 <= low < high.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		gapStart:      noGap,
		gapEnd:        noGap,
		lowWatermark:  DefaultLowWatermark,
		highWatermark: DefaultHighWatermark,
		logger:        logging.NullLogger,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.lowWatermark < 0 || s.lowWatermark >= s.highWatermark {
		return nil, fmt.Errorf("%w: low watermark %d, high watermark %d",
			ErrInvalidConfiguration, s.lowWatermark, s.highWatermark)
	}

	return s, nil
}

// NewStoreFromString creates a store holding text.
func NewStoreFromString(text string, opts ...Option) (*Store, error) {
	s, err := NewStore(opts...)
	if err != nil {
		return nil, err
	}
	s.Set(text)
	return s, nil
}

// Len returns the logical length of the stored text.
func (s *Store) Len() int {
	return len(s.content) - s.gapSize()
}

// GapSize returns the current size of the gap.
func (s *Store) GapSize() int {
	return s.gapSize()
}

// Stats returns copy statistics accumulated since creation.
func (s *Store) Stats() Stats {
	return s.stats
}

// Watermarks returns the configured gap bounds.
func (s *Store) Watermarks() (low, high int) {
	return s.lowWatermark, s.highWatermark
}

// validRange reports whether [offset, offset+length) lies inside the text.
func (s *Store) validRange(offset, length int) bool {
	n := s.Len()
	return offset >= 0 && length >= 0 && offset <= n && length <= n-offset
}

func (s *Store) gapSize() int {
	if s.gapStart == noGap {
		return 0
	}
	return s.gapEnd - s.gapStart
}

// Char returns the byte at offset.
func (s *Store) Char(offset int) (byte, error) {
	if offset < 0 || offset >= s.Len() {
		return 0, ErrOutOfRange
	}
	if s.gapStart == noGap || offset < s.gapStart {
		return s.content[offset], nil
	}
	return s.content[offset+s.gapSize()], nil
}

// Text returns length bytes starting at offset.
// Ranges that straddle the gap are joined; all others are sliced directly.
func (s *Store) Text(offset, length int) (string, error) {
	if !s.validRange(offset, length) {
		return "", ErrOutOfRange
	}
	if length == 0 {
		return "", nil
	}

	end := offset + length
	if s.gapStart == noGap || end <= s.gapStart {
		return string(s.content[offset:end]), nil
	}

	gap := s.gapSize()
	if offset >= s.gapStart {
		return string(s.content[offset+gap : end+gap]), nil
	}

	var b strings.Builder
	b.Grow(length)
	b.Write(s.content[offset:s.gapStart])
	b.Write(s.content[s.gapEnd : end+gap])
	return b.String(), nil
}

// String returns the whole logical text.
func (s *Store) String() string {
	text, _ := s.Text(0, s.Len())
	return text
}

// Set replaces the whole content and discards the gap.
func (s *Store) Set(text string) {
	s.content = []byte(text)
	s.gapStart = noGap
	s.gapEnd = noGap
}

// Replace removes length bytes at offset and inserts text in their place.
// Nothing is modified when an error is returned.
func (s *Store) Replace(offset, length int, text string) error {
	if !s.validRange(offset, length) {
		return ErrOutOfRange
	}

	changed := len(text) - length
	if s.gapStart == noGap {
		s.reallocate(offset, length, text, changed)
		return nil
	}

	oldGap := s.gapSize()
	newGap := oldGap - changed
	if newGap < s.lowWatermark || newGap > s.highWatermark {
		s.reallocate(offset, length, text, changed)
		return nil
	}

	s.moveGap(offset, length, oldGap)
	copy(s.content[offset:], text)
	s.gapStart = offset + len(text)
	s.gapEnd = s.gapStart + newGap
	return nil
}

// moveGap relocates the gap inside the current slice so that it will start
// right after the inserted text. Only the bytes between the old gap and the
// edit are copied; an edit adjacent to the gap copies nothing.
func (s *Store) moveGap(offset, length, oldGap int) {
	// The byte following the removed range lands at newGapEnd.
	newGapEnd := offset + length + oldGap

	if offset < s.gapStart {
		afterRemove := offset + length
		if afterRemove < s.gapStart {
			// Text between the edit and the gap moves behind the new gap.
			n := copy(s.content[newGapEnd:], s.content[afterRemove:s.gapStart])
			s.stats.BytesMoved += n
		}
		// Otherwise the removal reaches into the gap and only widens it.
		return
	}

	// The edit lies after the gap: pull the text in between to the front.
	between := offset + oldGap - s.gapEnd
	if between > 0 {
		n := copy(s.content[s.gapStart:], s.content[s.gapEnd:s.gapEnd+between])
		s.stats.BytesMoved += n
	}
}

// reallocate builds a new backing slice around a freshly sized gap.
// Growing edits get a gap of highWatermark, shrinking edits lowWatermark.
// Either way the new gap lies within [lowWatermark, highWatermark].
func (s *Store) reallocate(offset, length int, text string, changed int) {
	oldLen := s.Len()
	gap := s.highWatermark
	if changed < 0 {
		gap = s.lowWatermark
	}

	buf := make([]byte, oldLen+changed+gap)
	s.copyOut(buf[:offset], 0)
	copy(buf[offset:], text)
	gapStart := offset + len(text)
	gapEnd := gapStart + gap
	s.copyOut(buf[gapEnd:], offset+length)

	s.content = buf
	s.gapStart = gapStart
	s.gapEnd = gapEnd

	s.stats.Reallocations++
	s.stats.BytesMoved += oldLen - length

	if s.logger.Enabled(logging.LogLevelDebug) {
		s.logger.Debug("reallocated gap buffer: len=%d gap=%d", oldLen+changed, gap)
	}
}

// copyOut copies the logical range [from, from+len(dst)) into dst.
func (s *Store) copyOut(dst []byte, from int) {
	n := len(dst)
	if n == 0 {
		return
	}
	to := from + n
	if s.gapStart == noGap || to <= s.gapStart {
		copy(dst, s.content[from:to])
		return
	}
	gap := s.gapSize()
	if from >= s.gapStart {
		copy(dst, s.content[from+gap:to+gap])
		return
	}
	k := copy(dst, s.content[from:s.gapStart])
	copy(dst[k:], s.content[s.gapEnd:to+gap])
}
