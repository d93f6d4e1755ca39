package format

import (
	"strings"
	"unicode/utf8"
)

// textEdit replaces text[start:end] with repl.
type textEdit struct {
	start, end int
	repl       string
}

// editList is a set of non-overlapping edits in ascending order.
type editList []textEdit

// apply returns text with every edit applied.
func (l editList) apply(text string) string {
	if len(l) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, e := range l {
		b.WriteString(text[last:e.start])
		b.WriteString(e.repl)
		last = e.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// mapOffset returns where offset lands once the edits are applied.
// Offsets inside a replaced range keep their distance from its start, up
// to the length of the replacement.
func (l editList) mapOffset(offset int) int {
	delta := 0
	for _, e := range l {
		if offset <= e.start {
			break
		}
		if offset < e.end {
			return e.start + delta + min(offset-e.start, len(e.repl))
		}
		delta += len(e.repl) - (e.end - e.start)
	}
	return offset + delta
}

// mapOffsets maps every offset through the edits.
func (l editList) mapOffsets(offsets []int) []int {
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = l.mapOffset(o)
	}
	return out
}

// segmentwise applies fn to the text between consecutive offsets, so every
// offset stays on a segment boundary. An offset inside a multi-byte rune is
// moved back to the rune's first byte.
func segmentwise(text string, offsets []int, fn func(string) string) (string, []int) {
	var b strings.Builder
	out := make([]int, len(offsets))
	last := 0
	for i, o := range offsets {
		o = min(max(o, last), len(text))
		for o > last && o < len(text) && !utf8.RuneStart(text[o]) {
			o--
		}
		b.WriteString(fn(text[last:o]))
		out[i] = b.Len()
		last = o
	}
	b.WriteString(fn(text[last:]))
	return b.String(), out
}
