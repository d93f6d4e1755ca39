package lines

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestTrackerEmpty(t *testing.T) {
	tr := New("")
	if tr.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", tr.LineCount())
	}
	line, err := tr.LineOfOffset(0)
	if err != nil || line != 0 {
		t.Errorf("LineOfOffset(0) = %d, %v", line, err)
	}
	n, err := tr.LineLength(0)
	if err != nil || n != 0 {
		t.Errorf("LineLength(0) = %d, %v", n, err)
	}
}

func TestTrackerQueries(t *testing.T) {
	tr := New("abc\ndef\n\nghi")

	if tr.LineCount() != 4 {
		t.Fatalf("expected 4 lines, got %d", tr.LineCount())
	}

	lineTests := []struct {
		offset, line int
	}{
		{0, 0}, {3, 0}, {4, 1}, {7, 1}, {8, 2}, {9, 3}, {12, 3},
	}
	for _, tt := range lineTests {
		got, err := tr.LineOfOffset(tt.offset)
		if err != nil {
			t.Fatalf("LineOfOffset(%d) failed: %v", tt.offset, err)
		}
		if got != tt.line {
			t.Errorf("LineOfOffset(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}

	startTests := []struct {
		line, offset, length int
	}{
		{0, 0, 4}, {1, 4, 4}, {2, 8, 1}, {3, 9, 3},
	}
	for _, tt := range startTests {
		off, err := tr.LineOffset(tt.line)
		if err != nil || off != tt.offset {
			t.Errorf("LineOffset(%d) = %d, %v; want %d", tt.line, off, err, tt.offset)
		}
		n, err := tr.LineLength(tt.line)
		if err != nil || n != tt.length {
			t.Errorf("LineLength(%d) = %d, %v; want %d", tt.line, n, err, tt.length)
		}
	}

	if _, err := tr.LineOffset(4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := tr.LineOfOffset(13); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestTrackerReplaceOutOfRange(t *testing.T) {
	tr := New("ab\ncd")
	if err := tr.Replace(3, 3, ""); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if tr.Len() != 5 || tr.LineCount() != 2 {
		t.Error("failed replace modified the tracker")
	}
}

// TestTrackerMatchesRescan applies random edits and compares against a
// tracker rebuilt from scratch.
func TestTrackerMatchesRescan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	text := "one\ntwo\nthree"
	tr := New(text)

	for step := 0; step < 1000; step++ {
		offset := rng.Intn(len(text) + 1)
		length := 0
		if rem := len(text) - offset; rem > 0 {
			length = rng.Intn(min(rem, 8) + 1)
		}
		var b strings.Builder
		for i := rng.Intn(6); i > 0; i-- {
			b.WriteByte("x\n"[rng.Intn(2)])
		}
		insert := b.String()

		if err := tr.Replace(offset, length, insert); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		text = text[:offset] + insert + text[offset+length:]

		want := New(text)
		if tr.Len() != want.Len() || tr.LineCount() != want.LineCount() {
			t.Fatalf("step %d: got len %d lines %d, want len %d lines %d",
				step, tr.Len(), tr.LineCount(), want.Len(), want.LineCount())
		}
		for i := range want.newlines {
			if tr.newlines[i] != want.newlines[i] {
				t.Fatalf("step %d: newline %d at %d, want %d", step, i, tr.newlines[i], want.newlines[i])
			}
		}
	}
}
