package gapbuffer

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, text string, opts ...Option) *Store {
	t.Helper()
	s, err := NewStoreFromString(text, opts...)
	if err != nil {
		t.Fatalf("NewStoreFromString failed: %v", err)
	}
	return s
}

func TestNewStoreInvalidWatermarks(t *testing.T) {
	tests := []struct {
		name      string
		low, high int
	}{
		{"equal", 8, 8},
		{"inverted", 16, 4},
		{"negative low", -1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(WithWatermarks(tt.low, tt.high))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNewStoreEmpty(t *testing.T) {
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected length 0, got %d", s.Len())
	}
	if s.String() != "" {
		t.Errorf("expected empty text, got %q", s.String())
	}
	low, high := s.Watermarks()
	if low != DefaultLowWatermark || high != DefaultHighWatermark {
		t.Errorf("unexpected default watermarks %d/%d", low, high)
	}
}

func TestStoreReplace(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		offset  int
		length  int
		text    string
		want    string
	}{
		{"insert start", "World", 0, 0, "Hello ", "Hello World"},
		{"insert end", "Hello", 5, 0, " World", "Hello World"},
		{"insert middle", "Hello World", 5, 0, ",", "Hello, World"},
		{"delete", "Hello, World!", 5, 2, "", "HelloWorld!"},
		{"replace shorter", "Hello World", 6, 5, "Go", "Hello Go"},
		{"replace longer", "ab", 1, 1, "xyz", "axyz"},
		{"replace all", "abc", 0, 3, "", ""},
		{"noop", "abc", 1, 0, "", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.initial, WithWatermarks(2, 8))
			if err := s.Replace(tt.offset, tt.length, tt.text); err != nil {
				t.Fatalf("replace failed: %v", err)
			}
			if got := s.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if s.Len() != len(tt.want) {
				t.Errorf("expected length %d, got %d", len(tt.want), s.Len())
			}
		})
	}
}

func TestStoreReplaceOutOfRange(t *testing.T) {
	s := newTestStore(t, "Hello")

	cases := [][2]int{{-1, 0}, {0, 6}, {6, 0}, {3, -1}, {5, 1}}
	for _, c := range cases {
		if err := s.Replace(c[0], c[1], "x"); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Replace(%d, %d) expected ErrOutOfRange, got %v", c[0], c[1], err)
		}
	}
	if s.String() != "Hello" {
		t.Errorf("failed replace modified content: %q", s.String())
	}
}

func TestStoreTextAcrossGap(t *testing.T) {
	s := newTestStore(t, "abcdefgh", WithWatermarks(2, 8))

	// Park the gap in the middle.
	if err := s.Replace(4, 0, "X"); err != nil {
		t.Fatal(err)
	}
	if s.GapSize() == 0 {
		t.Fatal("expected a gap after replace")
	}

	tests := []struct {
		offset, length int
		want           string
	}{
		{0, 4, "abcd"},
		{5, 4, "efgh"},
		{2, 5, "cdXef"},
		{0, 9, "abcdXefgh"},
		{3, 0, ""},
	}
	for _, tt := range tests {
		got, err := s.Text(tt.offset, tt.length)
		if err != nil {
			t.Fatalf("Text(%d, %d) failed: %v", tt.offset, tt.length, err)
		}
		if got != tt.want {
			t.Errorf("Text(%d, %d) = %q, want %q", tt.offset, tt.length, got, tt.want)
		}
	}

	if _, err := s.Text(5, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestStoreChar(t *testing.T) {
	s := newTestStore(t, "abcdef", WithWatermarks(2, 8))
	if err := s.Replace(3, 0, "-"); err != nil {
		t.Fatal(err)
	}

	want := "abc-def"
	for i := 0; i < len(want); i++ {
		c, err := s.Char(i)
		if err != nil {
			t.Fatalf("Char(%d) failed: %v", i, err)
		}
		if c != want[i] {
			t.Errorf("Char(%d) = %q, want %q", i, c, want[i])
		}
	}

	if _, err := s.Char(len(want)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange past end, got %v", err)
	}
	if _, err := s.Char(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for -1, got %v", err)
	}
}

func TestStoreSetDiscardsGap(t *testing.T) {
	s := newTestStore(t, "abc", WithWatermarks(2, 8))
	if err := s.Replace(1, 0, "x"); err != nil {
		t.Fatal(err)
	}
	s.Set("fresh content")
	if s.GapSize() != 0 {
		t.Errorf("expected no gap after Set, got %d", s.GapSize())
	}
	if s.String() != "fresh content" {
		t.Errorf("unexpected content %q", s.String())
	}
	if err := s.Replace(5, 0, "er"); err != nil {
		t.Fatal(err)
	}
	if s.String() != "fresher content" {
		t.Errorf("unexpected content %q", s.String())
	}
}

func TestStoreGapWithinWatermarks(t *testing.T) {
	const low, high = 4, 16
	s := newTestStore(t, strings.Repeat("x", 100), WithWatermarks(low, high))
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		n := s.Len()
		offset := rng.Intn(n + 1)
		length := 0
		if n-offset > 0 {
			length = rng.Intn(min(n-offset, 6) + 1)
		}
		text := strings.Repeat("y", rng.Intn(6))
		if err := s.Replace(offset, length, text); err != nil {
			t.Fatalf("replace failed: %v", err)
		}
		if gap := s.GapSize(); gap < low || gap > high {
			t.Fatalf("step %d: gap %d outside [%d, %d]", i, gap, low, high)
		}
	}
}

// TestStoreSequentialTypingLocality checks that typing forward only
// reallocates once per drained gap and never copies the document.
func TestStoreSequentialTypingLocality(t *testing.T) {
	const low, high = 8, 64
	doc := strings.Repeat("z", 10000)
	s := newTestStore(t, doc, WithWatermarks(low, high))

	const n = 1000
	start := 5000
	// The first edit has to place the gap.
	if err := s.Replace(start, 0, "a"); err != nil {
		t.Fatal(err)
	}
	base := s.Stats()

	for i := 1; i < n; i++ {
		if err := s.Replace(start+i, 0, "a"); err != nil {
			t.Fatal(err)
		}
	}

	st := s.Stats()
	reallocs := st.Reallocations - base.Reallocations
	maxReallocs := n/(high-low) + 1
	if reallocs > maxReallocs {
		t.Errorf("expected at most %d reallocations, got %d", maxReallocs, reallocs)
	}

	// No in-place moves happen while typing at the gap.
	moved := st.BytesMoved - base.BytesMoved
	if moved > reallocs*(len(doc)+n) {
		t.Errorf("moved %d bytes for %d reallocations", moved, reallocs)
	}

	want := doc[:start] + strings.Repeat("a", n) + doc[start:]
	if s.String() != want {
		t.Error("content mismatch after sequential typing")
	}
}

func TestStoreBackspaceLocality(t *testing.T) {
	const low, high = 8, 64
	s := newTestStore(t, strings.Repeat("q", 2000), WithWatermarks(low, high))

	pos := 1500
	if err := s.Replace(pos-1, 1, ""); err != nil {
		t.Fatal(err)
	}
	pos--
	base := s.Stats()

	for i := 0; i < 500; i++ {
		if err := s.Replace(pos-1, 1, ""); err != nil {
			t.Fatal(err)
		}
		pos--
	}

	reallocs := s.Stats().Reallocations - base.Reallocations
	if reallocs > 500/(high-low)+1 {
		t.Errorf("too many reallocations while deleting backwards: %d", reallocs)
	}
	if s.Len() != 2000-501 {
		t.Errorf("unexpected length %d", s.Len())
	}
}

// TestStoreMatchesReference applies random edits to the store and to a
// plain string and compares the results after every step.
func TestStoreMatchesReference(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := newTestStore(t, "", WithWatermarks(1, 12))
		ref := ""

		for step := 0; step < 300; step++ {
			offset := rng.Intn(len(ref) + 1)
			length := 0
			if rem := len(ref) - offset; rem > 0 {
				length = rng.Intn(min(rem, 10) + 1)
			}
			text := randomText(rng, rng.Intn(12))

			if err := s.Replace(offset, length, text); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			ref = ref[:offset] + text + ref[offset+length:]

			if got := s.String(); got != ref {
				t.Fatalf("seed %d step %d: got %q, want %q", seed, step, got, ref)
			}
		}
	}
}

func randomText(rng *rand.Rand, n int) string {
	const alphabet = "abc \n\t"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func FuzzStoreReplace(f *testing.F) {
	f.Add("hello world", 0, 5, "bye")
	f.Add("", 0, 0, "x")
	f.Add("abc", 3, 0, "def")
	f.Add("abcdef", 2, 2, "")

	f.Fuzz(func(t *testing.T, initial string, offset, length int, text string) {
		s, err := NewStoreFromString(initial, WithWatermarks(0, 4))
		if err != nil {
			t.Fatal(err)
		}
		err = s.Replace(offset, length, text)
		if offset < 0 || length < 0 || offset > len(initial) || length > len(initial)-offset {
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
			if s.String() != initial {
				t.Fatal("failed replace modified content")
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := initial[:offset] + text + initial[offset+length:]
		if s.String() != want {
			t.Fatalf("got %q, want %q", s.String(), want)
		}
	})
}
