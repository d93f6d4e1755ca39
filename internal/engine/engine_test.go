package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/textcore/internal/config"
)

func commentConfig(strategies ...string) *config.Config {
	cfg := config.Default()
	cfg.Partitions = []config.PartitionRule{
		{ContentType: "comment", Start: "/*", End: "*/"},
	}
	if len(strategies) > 0 {
		cfg.Formatting["comment"] = config.FormatterConfig{Strategies: strategies}
	}
	return cfg
}

func newTestEngine(t *testing.T, content string, cfg *config.Config) *Engine {
	t.Helper()
	e, err := New(WithContent(content), WithConfig(cfg))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 || e.Text() != "" {
		t.Errorf("expected empty engine, got %q", e.Text())
	}
	if e.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", e.LineCount())
	}
	parts, err := e.Partitioning()
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].Type != DefaultContentType {
		t.Errorf("Partitioning() = %v", parts)
	}
}

func TestNewFromReader(t *testing.T) {
	content := "Hello,\nWorld!"
	e, err := NewFromReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
	if e.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", e.LineCount())
	}
	if line, err := e.LineOfOffset(8); err != nil || line != 1 {
		t.Errorf("LineOfOffset(8) = %d, %v", line, err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.LowWatermark = 100
	cfg.Store.HighWatermark = 10
	if _, err := New(WithConfig(cfg)); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestEditOperations(t *testing.T) {
	e := newTestEngine(t, "Hello", nil)

	if err := e.Insert(5, ", World"); err != nil {
		t.Fatal(err)
	}
	if err := e.Replace(7, 5, "Go"); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete(0, 1); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "ello, Go" {
		t.Errorf("Text() = %q", got)
	}
	if got, err := e.TextRange(6, 2); err != nil || got != "Go" {
		t.Errorf("TextRange(6, 2) = %q, %v", got, err)
	}
	if err := e.Insert(100, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := e.Set("fresh"); err != nil || e.Text() != "fresh" {
		t.Errorf("Set() = %v, text %q", err, e.Text())
	}
}

// ============================================================================
// Positions
// ============================================================================

func TestPositionsFollowEdits(t *testing.T) {
	e := newTestEngine(t, "abcdef", nil)

	p, err := e.AddPosition(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Insert(0, "xx"); err != nil {
		t.Fatal(err)
	}
	if p.Offset != 4 || p.Length != 2 {
		t.Errorf("position = %v, want (4, 2)", p)
	}

	if _, err := e.AddPosition(5, 10); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	if len(e.Positions()) != 1 {
		t.Errorf("Positions() = %v", e.Positions())
	}
	if err := e.RemovePosition(p); err != nil {
		t.Fatal(err)
	}
	if err := e.RemovePosition(p); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestFullOverlapPolicyFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Positions.OnFullOverlap = "clamp"
	e := newTestEngine(t, "abcdef", cfg)

	p, _ := e.AddPosition(2, 2)
	if err := e.Delete(1, 4); err != nil {
		t.Fatal(err)
	}
	if p.IsDeleted() || p.Offset != 1 || p.Length != 0 {
		t.Errorf("clamped position = %v deleted=%v", p, p.IsDeleted())
	}

	// Switching the policy at runtime affects later edits.
	cfg2 := config.Default()
	if err := e.Reconfigure(cfg2); err != nil {
		t.Fatal(err)
	}
	q, _ := e.AddPosition(1, 1)
	if err := e.Delete(0, 2); err != nil {
		t.Fatal(err)
	}
	if !q.IsDeleted() {
		t.Errorf("position should be deleted under the delete policy: %v", q)
	}
}

// ============================================================================
// Partitioning and Formatting
// ============================================================================

func TestPartitioningFromConfig(t *testing.T) {
	e := newTestEngine(t, "a /* b */ c", commentConfig())

	parts, err := e.Partitioning()
	if err != nil {
		t.Fatal(err)
	}
	want := []TypedRegion{
		{Offset: 0, Length: 2, Type: DefaultContentType},
		{Offset: 2, Length: 7, Type: "comment"},
		{Offset: 9, Length: 2, Type: DefaultContentType},
	}
	if len(parts) != len(want) {
		t.Fatalf("Partitioning() = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("region %d = %v, want %v", i, parts[i], want[i])
		}
	}
	if ct, err := e.ContentType(4); err != nil || ct != "comment" {
		t.Errorf("ContentType(4) = %q, %v", ct, err)
	}
}

func TestFormatAllUpper(t *testing.T) {
	e := newTestEngine(t, "a /* b */ c", commentConfig("upper"))

	p, _ := e.AddPosition(5, 1) // "b"
	if err := e.FormatAll(); err != nil {
		t.Fatalf("FormatAll failed: %v", err)
	}
	if got := e.Text(); got != "a /* B */ c" {
		t.Errorf("Text() = %q", got)
	}
	if p.Offset != 5 || p.Length != 1 {
		t.Errorf("position = %v, want (5, 1)", p)
	}
}

func TestFormatChainedStrategies(t *testing.T) {
	e := newTestEngine(t, "x /* a  \n b */", commentConfig("trim", "upper"))

	if err := e.Format(0, e.Len()); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "x /* A\n B */" {
		t.Errorf("Text() = %q", got)
	}
}

func TestFormatLuaStrategy(t *testing.T) {
	script := filepath.Join(t.TempDir(), "bang.lua")
	if err := os.WriteFile(script, []byte(`
function format(text, is_line_start, indentation, offsets)
    local out = string.gsub(text, "%*/$", "!*/")
    return out, offsets
end`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := commentConfig()
	cfg.Formatting["comment"] = config.FormatterConfig{
		Strategies: []string{config.LuaStrategy},
		Script:     script,
	}
	e := newTestEngine(t, "/* hi */", cfg)

	if err := e.FormatAll(); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "/* hi !*/" {
		t.Errorf("Text() = %q", got)
	}
}

func TestFormatStrategyFailure(t *testing.T) {
	cfg := commentConfig()
	cfg.Formatting["comment"] = config.FormatterConfig{Strategies: []string{config.LuaStrategy}, Script: "missing.lua"}
	if _, err := New(WithConfig(cfg)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist for a missing script, got %v", err)
	}
}

func TestStrategyFromConfig(t *testing.T) {
	s, err := StrategyFromConfig(config.FormatterConfig{Strategies: []string{"wrap"}, Width: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	text, offsets, err := s.Format("aaa bbb", false, "", []int{4})
	if err != nil {
		t.Fatal(err)
	}
	if text != "aaa\nbbb" || offsets[0] != 4 {
		t.Errorf("Format() = %q, %v", text, offsets)
	}

	if _, err := StrategyFromConfig(config.FormatterConfig{Strategies: []string{"nope"}}, nil); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
	if _, err := StrategyFromConfig(config.FormatterConfig{}, nil); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy for an empty list, got %v", err)
	}
}

func TestReconfigure(t *testing.T) {
	e := newTestEngine(t, "a /* b */ # c", commentConfig("upper"))

	cfg := config.Default()
	cfg.Partitions = []config.PartitionRule{{ContentType: "hash", Start: "#", SingleLine: true}}
	cfg.Formatting["hash"] = config.FormatterConfig{Strategies: []string{"upper"}}
	if err := e.Reconfigure(cfg); err != nil {
		t.Fatal(err)
	}
	if e.Config() != cfg {
		t.Error("Config() does not return the new configuration")
	}
	if err := e.FormatAll(); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "a /* b */ # C" {
		t.Errorf("Text() = %q", got)
	}

	bad := config.Default()
	bad.Positions.OnFullOverlap = "??"
	if err := e.Reconfigure(bad); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if e.Config() != cfg {
		t.Error("failed Reconfigure replaced the configuration")
	}
}

// ============================================================================
// Child Documents
// ============================================================================

func TestChildDocuments(t *testing.T) {
	e := newTestEngine(t, "0123456789", nil)

	child, err := e.CreateChild(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if child.Text() != "3456" {
		t.Errorf("child content = %q", child.Text())
	}

	if err := e.Insert(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if off, length := child.ParentRange(); off != 5 || length != 4 {
		t.Errorf("ParentRange() = (%d, %d), want (5, 4)", off, length)
	}

	if err := child.Replace(0, 1, "X"); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "ab012X456789" {
		t.Errorf("parent text = %q", got)
	}

	if got, err := child.TextRange(1, 2); err != nil || got != "45" {
		t.Errorf("child TextRange(1, 2) = %q, %v", got, err)
	}
	if len(e.Children()) != 1 || e.Children()[0].Document() != child.Document() {
		t.Errorf("Children() = %d", len(e.Children()))
	}
	if err := e.FreeChild(child); err != nil {
		t.Fatal(err)
	}
	if child.IsAttached() {
		t.Error("freed child still attached")
	}
	if len(e.Children()) != 0 {
		t.Errorf("Children() after FreeChild = %d", len(e.Children()))
	}
}

func TestClose(t *testing.T) {
	e, err := New(WithContent("abc"), WithConfig(commentConfig("trim")))
	if err != nil {
		t.Fatal(err)
	}
	child, err := e.CreateChild(0, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if child.IsAttached() {
		t.Error("Close left a child attached")
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := e.Insert(0, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close = %v, want ErrClosed", err)
	}
	if err := e.FormatAll(); !errors.Is(err, ErrClosed) {
		t.Errorf("FormatAll after Close = %v, want ErrClosed", err)
	}
	if _, err := e.CreateChild(0, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateChild after Close = %v, want ErrClosed", err)
	}
	if e.Text() != "abc" {
		t.Errorf("Text() after Close = %q", e.Text())
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentAccess(t *testing.T) {
	e := newTestEngine(t, "", commentConfig("trim"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := e.Insert(0, "/* x */\n"); err != nil {
					t.Error(err)
					return
				}
				_ = e.Text()
				_, _ = e.Partitioning()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			if err := e.FormatAll(); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	if e.Len() != 4*50*len("/* x */\n") {
		t.Errorf("Len() = %d", e.Len())
	}
}

func TestConcurrentChildAccess(t *testing.T) {
	e := newTestEngine(t, "0123456789", nil)
	child, err := e.CreateChild(2, 4)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if err := child.Insert(0, "c"); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if err := e.Insert(0, "p"); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = e.Text()
			_ = child.Text()
			_, _ = child.ParentRange()
		}
	}()
	wg.Wait()

	offset, length := child.ParentRange()
	if length != 104 || child.Len() != 104 {
		t.Fatalf("child window length = %d, child length = %d, want 104", length, child.Len())
	}
	parent := e.Text()
	if parent[offset:offset+length] != child.Text() {
		t.Errorf("child %q out of sync with parent window %q", child.Text(), parent[offset:offset+length])
	}
	if e.Len() != 210 {
		t.Errorf("Len() = %d, want 210", e.Len())
	}
}
