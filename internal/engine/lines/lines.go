// Package lines maps byte offsets to line numbers for a document.
//
// A Tracker stores the offsets of every '\n' in sorted order and updates
// them incrementally on each edit, so offset-to-line queries are binary
// searches. Lines are 0-indexed; a document with N newlines has N+1 lines.
package lines

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOutOfRange indicates an offset or line outside the tracked text.
var ErrOutOfRange = errors.New("line offset out of range")

// Tracker tracks line boundaries of a text.
type Tracker struct {
	newlines []int
	length   int
}

// New creates a tracker for text.
func New(text string) *Tracker {
	t := &Tracker{}
	t.Set(text)
	return t
}

// Set replaces the tracked text.
func (t *Tracker) Set(text string) {
	t.newlines = appendNewlines(t.newlines[:0], text, 0)
	t.length = len(text)
}

// Len returns the length of the tracked text.
func (t *Tracker) Len() int {
	return t.length
}

// Replace updates line boundaries for a replacement of length bytes at
// offset by text.
func (t *Tracker) Replace(offset, length int, text string) error {
	if offset < 0 || length < 0 || offset > t.length || length > t.length-offset {
		return fmt.Errorf("%w: replace [%d:%d) in %d bytes", ErrOutOfRange, offset, offset+length, t.length)
	}

	lo := sort.SearchInts(t.newlines, offset)
	hi := sort.SearchInts(t.newlines, offset+length)
	delta := len(text) - length

	tail := t.newlines[hi:]
	inserted := strings.Count(text, "\n")

	merged := make([]int, 0, lo+inserted+len(tail))
	merged = append(merged, t.newlines[:lo]...)
	merged = appendNewlines(merged, text, offset)
	for _, nl := range tail {
		merged = append(merged, nl+delta)
	}

	t.newlines = merged
	t.length += delta
	return nil
}

// LineCount returns the number of lines.
func (t *Tracker) LineCount() int {
	return len(t.newlines) + 1
}

// LineOfOffset returns the line containing offset. The offset equal to
// the text length belongs to the last line.
func (t *Tracker) LineOfOffset(offset int) (int, error) {
	if offset < 0 || offset > t.length {
		return 0, fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	return sort.SearchInts(t.newlines, offset), nil
}

// LineOffset returns the offset of the first byte of line.
func (t *Tracker) LineOffset(line int) (int, error) {
	if line < 0 || line > len(t.newlines) {
		return 0, fmt.Errorf("%w: line %d", ErrOutOfRange, line)
	}
	if line == 0 {
		return 0, nil
	}
	return t.newlines[line-1] + 1, nil
}

// LineLength returns the length of line including its trailing newline.
func (t *Tracker) LineLength(line int) (int, error) {
	start, err := t.LineOffset(line)
	if err != nil {
		return 0, err
	}
	if line == len(t.newlines) {
		return t.length - start, nil
	}
	return t.newlines[line] + 1 - start, nil
}

func appendNewlines(dst []int, text string, base int) []int {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			dst = append(dst, base+i)
		}
	}
	return dst
}
