package loader

import (
	"errors"
	"io/fs"
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

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/scrollpane.toml", `
[scroll]
lineWrap = false
maxEntries = 20

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/scrollpane.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := GetPath(config, "scroll.lineWrap"); v != false {
		t.Errorf("scroll.lineWrap = %v, want false", v)
	}
	if v, _ := GetPath(config, "scroll.maxEntries"); v != int64(20) {
		t.Errorf("scroll.maxEntries = %v (%T), want 20", v, v)
	}
	if v, _ := GetPath(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	for _, path := range []string{"", "/missing.toml"} {
		config, err := NewTOMLLoaderWithFS(NewMemFS(), path).Load()
		if err != nil {
			t.Errorf("Load(%q) error = %v, want nil", path, err)
		}
		if config != nil {
			t.Errorf("Load(%q) = %v, want nil", path, config)
		}
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[scroll\nlineWrap = ")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("Line should be reported for decode errors")
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"scroll":  map[string]any{"lineWrap": true, "maxEntries": int64(100)},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"scroll": map[string]any{"maxEntries": int64(5)},
		"server": map[string]any{"listen": ":1"},
	}

	got := DeepMerge(dst, src)

	tests := []struct {
		path string
		want any
	}{
		{"scroll.lineWrap", true},
		{"scroll.maxEntries", int64(5)},
		{"logging.level", "info"},
		{"server.listen", ":1"},
	}
	for _, tt := range tests {
		if v, ok := GetPath(got, tt.path); !ok || v != tt.want {
			t.Errorf("%s = %v, want %v", tt.path, v, tt.want)
		}
	}

	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) should return an empty map")
	}
}
