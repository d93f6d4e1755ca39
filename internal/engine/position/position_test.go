package position

import "testing"

func TestPositionOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		p              Position
		offset, length int
		want           bool
	}{
		{"disjoint before", Position{Offset: 0, Length: 2}, 2, 3, false},
		{"disjoint after", Position{Offset: 5, Length: 2}, 2, 3, false},
		{"partial left", Position{Offset: 1, Length: 2}, 2, 3, true},
		{"partial right", Position{Offset: 4, Length: 3}, 2, 3, true},
		{"contains range", Position{Offset: 0, Length: 10}, 2, 3, true},
		{"inside range", Position{Offset: 3, Length: 1}, 2, 3, true},
		{"empty at start", Position{Offset: 2}, 2, 3, true},
		{"empty inside", Position{Offset: 3}, 2, 3, true},
		{"empty at end", Position{Offset: 5}, 2, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Overlaps(tt.offset, tt.length); got != tt.want {
				t.Errorf("%s.Overlaps(%d, %d) = %v, want %v", &tt.p, tt.offset, tt.length, got, tt.want)
			}
		})
	}
}

func TestPositionIncludes(t *testing.T) {
	p := New(2, 3)
	for offset, want := range map[int]bool{1: false, 2: true, 4: true, 5: false} {
		if got := p.Includes(offset); got != want {
			t.Errorf("Includes(%d) = %v, want %v", offset, got, want)
		}
	}
	p.Delete()
	if p.Includes(3) {
		t.Error("deleted position should include nothing")
	}
	p.Undelete()
	if !p.Includes(3) {
		t.Error("undeleted position should include 3")
	}
}

func TestCategoryEquality(t *testing.T) {
	if Named("marks") != Named("marks") {
		t.Error("named categories with equal names should be equal")
	}
	a := NewPrivateCategory("marks")
	b := NewPrivateCategory("marks")
	if a == b {
		t.Error("private categories should never be equal")
	}
	if a == Named("marks") {
		t.Error("private category should not equal a named one")
	}
	if !a.IsPrivate() || Named("marks").IsPrivate() {
		t.Error("IsPrivate mismatch")
	}
	if a.Name() != "marks" {
		t.Errorf("unexpected name %q", a.Name())
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"delete", Delete, true},
		{"", Delete, true},
		{"clamp", ClampToZero, true},
		{"clamp_to_zero", ClampToZero, true},
		{"shrink", Delete, false},
	}
	for _, tt := range tests {
		got, ok := ParsePolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
