package partition

import (
	"errors"
	"testing"

	"github.com/dshills/textcore/internal/engine/document"
)

func goRules() []Rule {
	return []Rule{
		{ContentType: "comment", Start: "/*", End: "*/"},
		{ContentType: "comment", Start: "//", SingleLine: true},
		{ContentType: "string", Start: `"`, End: `"`, SingleLine: true, Escape: '\\'},
	}
}

func newTestPartitioner(t *testing.T) *Partitioner {
	t.Helper()
	p, err := New(goRules()...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNewRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"no start", Rule{ContentType: "x"}},
		{"no type", Rule{Start: "#"}},
		{"default type", Rule{ContentType: document.DefaultContentType, Start: "#"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.rule); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestContentTypes(t *testing.T) {
	got := newTestPartitioner(t).ContentTypes()
	want := []string{document.DefaultContentType, "comment", "string"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []document.TypedRegion
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "plain",
			text: "x := 1",
			want: []document.TypedRegion{{Offset: 0, Length: 6, Type: "default"}},
		},
		{
			name: "block comment",
			text: "a /* b */ c",
			want: []document.TypedRegion{
				{Offset: 0, Length: 2, Type: "default"},
				{Offset: 2, Length: 7, Type: "comment"},
				{Offset: 9, Length: 2, Type: "default"},
			},
		},
		{
			name: "line comment stops at newline",
			text: "a // b\nc",
			want: []document.TypedRegion{
				{Offset: 0, Length: 2, Type: "default"},
				{Offset: 2, Length: 4, Type: "comment"},
				{Offset: 6, Length: 2, Type: "default"},
			},
		},
		{
			name: "unterminated block runs to end",
			text: "a /* b\nc",
			want: []document.TypedRegion{
				{Offset: 0, Length: 2, Type: "default"},
				{Offset: 2, Length: 6, Type: "comment"},
			},
		},
		{
			name: "escaped quote",
			text: `s = "a\"b" + x`,
			want: []document.TypedRegion{
				{Offset: 0, Length: 4, Type: "default"},
				{Offset: 4, Length: 6, Type: "string"},
				{Offset: 10, Length: 4, Type: "default"},
			},
		},
		{
			name: "adjacent regions",
			text: `/**/"x"`,
			want: []document.TypedRegion{
				{Offset: 0, Length: 4, Type: "comment"},
				{Offset: 4, Length: 3, Type: "string"},
			},
		},
	}

	p := newTestPartitioner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Partition(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("region %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPartitionCoversText(t *testing.T) {
	p := newTestPartitioner(t)
	text := "x /* a */ y // b\n\"s\\\"\" /* open"
	regions := p.Partition(text)

	next := 0
	for _, r := range regions {
		if r.Offset != next || r.Length <= 0 {
			t.Fatalf("gap or empty region at %s (expected offset %d)", r, next)
		}
		next = r.End()
	}
	if next != len(text) {
		t.Errorf("regions end at %d, text has %d bytes", next, len(text))
	}
}

func TestPartitionerWithDocument(t *testing.T) {
	p := newTestPartitioner(t)
	doc, err := document.New(document.WithText("a /* b */ c"), document.WithPartitioner(p))
	if err != nil {
		t.Fatal(err)
	}
	ct, err := doc.ContentType(4)
	if err != nil || ct != "comment" {
		t.Errorf("ContentType(4) = %q, %v", ct, err)
	}

	// Closing the comment early reshapes the partitioning.
	if err := doc.Replace(4, 0, "*/"); err != nil {
		t.Fatal(err)
	}
	ct, _ = doc.ContentType(7)
	if ct != document.DefaultContentType {
		t.Errorf("expected default after closing comment, got %q", ct)
	}
}
