package loader

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func TestForPath(t *testing.T) {
	memfs := NewMemFS()
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/a/config.toml", "*loader.TOMLLoader", false},
		{"/a/config.yaml", "*loader.YAMLLoader", false},
		{"/a/config.YML", "*loader.YAMLLoader", false},
		{"/a/config.json", "", true},
		{"/a/config", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(memfs, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ForPath(%q) expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForPath(%q) error = %v", tt.path, err)
			}
			if got := reflect.TypeOf(l).String(); got != tt.want {
				t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseErrorFormat(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 2, Column: 3, Message: "bad"}, "parse error in a.toml at line 2, column 3: bad"},
		{&ParseError{Path: "a.toml", Line: 2, Message: "bad"}, "parse error in a.toml at line 2: bad"},
		{&ParseError{Path: "a.toml", Message: "bad", Err: base}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !errors.Is(tests[2].err, base) {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"store":   map[string]any{"low_watermark": 8, "high_watermark": 64},
		"logging": map[string]any{"level": "info"},
		"keep":    "dst",
	}
	src := map[string]any{
		"store":   map[string]any{"high_watermark": 128},
		"logging": "flat",
		"new":     true,
	}

	got := DeepMerge(dst, src)
	want := map[string]any{
		"store":   map[string]any{"low_watermark": 8, "high_watermark": 128},
		"logging": "flat",
		"keep":    "dst",
		"new":     true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %v, want %v", got, want)
	}

	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v, want empty map", got)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"partitions": []any{map[string]any{"start": "/*"}},
		"store":      map[string]any{"low_watermark": 4},
	}
	dst := Clone(src)
	if !reflect.DeepEqual(src, dst) {
		t.Fatalf("Clone() = %v, want %v", dst, src)
	}

	dst["store"].(map[string]any)["low_watermark"] = 99
	dst["partitions"].([]any)[0].(map[string]any)["start"] = "//"

	if src["store"].(map[string]any)["low_watermark"] != 4 {
		t.Error("Clone shares nested maps")
	}
	if src["partitions"].([]any)[0].(map[string]any)["start"] != "/*" {
		t.Error("Clone shares maps inside slices")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
