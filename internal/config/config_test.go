package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/scrollpane/internal/config/loader"
	"github.com/dshills/scrollpane/internal/renderer/layout"
)

// staticEnv is an environment source returning a fixed map.
type staticEnv map[string]any

func (s staticEnv) Load() (map[string]any, error) { return s, nil }

func env(kv map[string]string) staticEnv {
	m := staticEnv{}
	mapping := loader.DefaultEnvMapping()
	for k, v := range kv {
		loader.SetPath(m, mapping[k], loader.ParseValue(v))
	}
	return m
}

func TestDefault(t *testing.T) {
	c := Default()

	if !c.LineWrap || c.WordWrap {
		t.Errorf("wrap = %v/%v, want true/false", c.LineWrap, c.WordWrap)
	}
	if c.MaxEntries != 100 {
		t.Errorf("MaxEntries = %d, want 100", c.MaxEntries)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", c.LogLevel)
	}
	if c.Listen != "" || c.LogFile != "" {
		t.Errorf("Listen/LogFile should be empty, got %q/%q", c.Listen, c.LogFile)
	}
	if c.WrapMode() != layout.ModeHardWrap {
		t.Errorf("WrapMode() = %v, want hard wrap", c.WrapMode())
	}
}

func TestLoadEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		lineWrap   bool
		wordWrap   bool
		maxEntries int
		mode       layout.Mode
		problems   int
	}{
		{
			name:       "empty",
			lineWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeHardWrap,
		},
		{
			name:       "word wrap",
			env:        map[string]string{"WORD_WRAP": "1"},
			lineWrap:   true,
			wordWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeWordWrap,
		},
		{
			name:       "truncate",
			env:        map[string]string{"LINE_WRAP": "0", "WORD_WRAP": "1"},
			wordWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeTruncate,
		},
		{
			name:       "max entries",
			env:        map[string]string{"MAX_ENTRIES": "3"},
			lineWrap:   true,
			maxEntries: 3,
			mode:       layout.ModeHardWrap,
		},
		{
			name:       "max entries one",
			env:        map[string]string{"MAX_ENTRIES": "1"},
			lineWrap:   true,
			maxEntries: 1,
			mode:       layout.ModeHardWrap,
		},
		{
			name:       "max entries zero",
			env:        map[string]string{"MAX_ENTRIES": "0"},
			lineWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeHardWrap,
			problems:   1,
		},
		{
			name:       "max entries negative",
			env:        map[string]string{"MAX_ENTRIES": "-5"},
			lineWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeHardWrap,
			problems:   1,
		},
		{
			name:       "garbage falls back",
			env:        map[string]string{"LINE_WRAP": "maybe", "MAX_ENTRIES": "lots"},
			lineWrap:   true,
			maxEntries: 100,
			mode:       layout.ModeHardWrap,
			problems:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(WithEnv(env(tt.env)))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if c.LineWrap != tt.lineWrap || c.WordWrap != tt.wordWrap {
				t.Errorf("wrap = %v/%v, want %v/%v", c.LineWrap, c.WordWrap, tt.lineWrap, tt.wordWrap)
			}
			if c.MaxEntries != tt.maxEntries {
				t.Errorf("MaxEntries = %d, want %d", c.MaxEntries, tt.maxEntries)
			}
			if c.WrapMode() != tt.mode {
				t.Errorf("WrapMode() = %v, want %v", c.WrapMode(), tt.mode)
			}
			if len(c.Problems) != tt.problems {
				t.Errorf("Problems = %v, want %d", c.Problems, tt.problems)
			}
		})
	}
}

func TestLoadProblemKinds(t *testing.T) {
	c, err := Load(WithEnv(env(map[string]string{"WORD_WRAP": "sometimes", "MAX_ENTRIES": "-1"})))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var mismatch, outOfRange bool
	for _, p := range c.Problems {
		mismatch = mismatch || errors.Is(p, ErrTypeMismatch)
		outOfRange = outOfRange || errors.Is(p, ErrOutOfRange)
	}
	if !mismatch || !outOfRange {
		t.Errorf("Problems = %v, want a type mismatch and a range error", c.Problems)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrollpane.toml")
	data := `
[scroll]
wordWrap = true
maxEntries = 20

[logging]
level = "debug"
file = "/tmp/pane.log"

[server]
listen = "127.0.0.1:7777"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(WithFile(path), WithEnv(env(map[string]string{"MAX_ENTRIES": "50"})))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !c.LineWrap || !c.WordWrap {
		t.Errorf("wrap = %v/%v, want true/true", c.LineWrap, c.WordWrap)
	}
	if c.MaxEntries != 50 {
		t.Errorf("MaxEntries = %d, want the environment's 50", c.MaxEntries)
	}
	if c.LogLevel != "debug" || c.LogFile != "/tmp/pane.log" {
		t.Errorf("logging = %q/%q", c.LogLevel, c.LogFile)
	}
	if c.Listen != "127.0.0.1:7777" {
		t.Errorf("Listen = %q", c.Listen)
	}
	opts := c.BufferOptions()
	if opts.MaxEntries != 50 || opts.Mode != layout.ModeWordWrap {
		t.Errorf("BufferOptions() = %+v", opts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(WithFile(filepath.Join(t.TempDir(), "none.toml")), WithEnv(staticEnv{}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxEntries != 100 {
		t.Errorf("MaxEntries = %d, want default", c.MaxEntries)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[scroll\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(WithFile(path), WithEnv(staticEnv{}))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestLoadProcessEnvironment(t *testing.T) {
	t.Setenv("LINE_WRAP", "false")
	t.Setenv("SCROLLPANE_LOG_LEVEL", "warn")
	t.Setenv("SCROLLPANE_LISTEN", ":9000")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LineWrap {
		t.Error("LINE_WRAP=false should disable line wrap")
	}
	if c.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", c.LogLevel)
	}
	if c.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", c.Listen)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrollpane.yml")
	data := "scroll:\n  lineWrap: false\n  maxEntries: 12\nlogging:\n  level: error\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(WithFile(path), WithEnv(staticEnv{}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LineWrap || c.MaxEntries != 12 || c.LogLevel != "error" {
		t.Errorf("config = %+v", c)
	}
	if len(c.Problems) != 0 {
		t.Errorf("Problems = %v", c.Problems)
	}
}

func TestLoadRequestLimits(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		batch    int
		width    int
		problems int
	}{
		{"defaults", nil, 0, 0, 0},
		{"set", map[string]string{"SCROLLPANE_MAX_BATCH": "50", "SCROLLPANE_MAX_ENTRY_WIDTH": "120"}, 50, 120, 0},
		{"one", map[string]string{"SCROLLPANE_MAX_BATCH": "1"}, 1, 0, 0},
		{"negative", map[string]string{"SCROLLPANE_MAX_BATCH": "-3", "SCROLLPANE_MAX_ENTRY_WIDTH": "-1"}, 0, 0, 2},
		{"garbage", map[string]string{"SCROLLPANE_MAX_ENTRY_WIDTH": "wide"}, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(WithEnv(env(tt.env)))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if c.MaxBatch != tt.batch || c.MaxEntryWidth != tt.width {
				t.Errorf("limits = %d/%d, want %d/%d", c.MaxBatch, c.MaxEntryWidth, tt.batch, tt.width)
			}
			if len(c.Problems) != tt.problems {
				t.Errorf("Problems = %v, want %d", c.Problems, tt.problems)
			}
		})
	}
}
