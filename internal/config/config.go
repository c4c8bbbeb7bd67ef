package config

import (
	"fmt"

	"github.com/dshills/scrollpane/internal/config/loader"
	"github.com/dshills/scrollpane/internal/renderer/layout"
	"github.com/dshills/scrollpane/internal/scroll"
)

// Config holds the settings scrollpane reads once at startup.
type Config struct {
	// LineWrap splits entries wider than the pane onto several lines.
	LineWrap bool
	// WordWrap breaks lines at spaces. It only applies with LineWrap.
	WordWrap bool
	// MaxEntries bounds the scroll buffer.
	MaxEntries int
	// MaxBatch bounds the requests handled for one message, nested ones
	// included. Zero means no limit.
	MaxBatch int
	// MaxEntryWidth rejects added or updated entries whose text is longer.
	// Zero means no limit.
	MaxEntryWidth int

	LogLevel string
	LogFile  string

	// Listen is the websocket gateway address. Empty disables it.
	Listen string

	// Problems lists values that could not be decoded. Each of them was
	// replaced by its default.
	Problems []error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LineWrap:   true,
		WordWrap:   false,
		MaxEntries: scroll.DefaultMaxEntries,
		LogLevel:   "info",
	}
}

// WrapMode returns the layout mode selected by LineWrap and WordWrap.
func (c *Config) WrapMode() layout.Mode {
	return layout.ModeFor(c.LineWrap, c.WordWrap)
}

// BufferOptions returns the scroll buffer options for this configuration.
func (c *Config) BufferOptions() scroll.Options {
	return scroll.Options{MaxEntries: c.MaxEntries, Mode: c.WrapMode()}
}

// Option configures Load.
type Option func(*options)

type options struct {
	file string
	fs   loader.FileSystem
	env  loader.Loader
}

// WithFile reads a TOML or YAML file between the defaults and the
// environment. A missing file is not an error.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithFileSystem sets the file system the TOML file is read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment source.
func WithEnv(env loader.Loader) Option {
	return func(o *options) {
		o.env = env
	}
}

// Load builds the configuration from defaults, the optional TOML file and
// the environment, later sources overriding earlier ones. Only an unreadable
// or malformed file is an error; bad individual values are recorded in
// Problems.
func Load(opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.OSFS{},
		env: loader.NewEnvLoader(loader.Prefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultConfig()

	file, err := loader.ForFile(o.fs, o.file).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, file)

	env, err := o.env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, env)

	return decode(merged), nil
}

func defaultConfig() map[string]any {
	def := Default()
	return map[string]any{
		"scroll": map[string]any{
			"lineWrap":   def.LineWrap,
			"wordWrap":   def.WordWrap,
			"maxEntries":    int64(def.MaxEntries),
			"maxBatch":      int64(def.MaxBatch),
			"maxEntryWidth": int64(def.MaxEntryWidth),
		},
		"logging": map[string]any{
			"level": def.LogLevel,
			"file":  def.LogFile,
		},
		"server": map[string]any{
			"listen": def.Listen,
		},
	}
}

func decode(m map[string]any) *Config {
	c := Default()
	d := decoder{data: m}

	d.boolAt("scroll.lineWrap", &c.LineWrap)
	d.boolAt("scroll.wordWrap", &c.WordWrap)
	d.intAt("scroll.maxEntries", &c.MaxEntries)
	d.intAt("scroll.maxBatch", &c.MaxBatch)
	d.intAt("scroll.maxEntryWidth", &c.MaxEntryWidth)
	d.stringAt("logging.level", &c.LogLevel)
	d.stringAt("logging.file", &c.LogFile)
	d.stringAt("server.listen", &c.Listen)

	if c.MaxEntries <= 0 {
		d.problems = append(d.problems, &RangeError{Path: "scroll.maxEntries", Value: c.MaxEntries})
		c.MaxEntries = scroll.DefaultMaxEntries
	}
	if c.MaxBatch < 0 {
		d.problems = append(d.problems, &RangeError{Path: "scroll.maxBatch", Value: c.MaxBatch})
		c.MaxBatch = 0
	}
	if c.MaxEntryWidth < 0 {
		d.problems = append(d.problems, &RangeError{Path: "scroll.maxEntryWidth", Value: c.MaxEntryWidth})
		c.MaxEntryWidth = 0
	}

	c.Problems = d.problems
	return c
}

// decoder copies typed values out of a merged map, leaving the destination
// untouched when a value has the wrong type.
type decoder struct {
	data     map[string]any
	problems []error
}

func (d *decoder) mismatch(path, expected string, v any) {
	d.problems = append(d.problems, &TypeError{Path: path, Expected: expected, Actual: typeName(v)})
}

func (d *decoder) boolAt(path string, dst *bool) {
	v, ok := loader.GetPath(d.data, path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.mismatch(path, "bool", v)
		return
	}
	*dst = b
}

func (d *decoder) intAt(path string, dst *int) {
	v, ok := loader.GetPath(d.data, path)
	if !ok {
		return
	}
	switch val := v.(type) {
	case int:
		*dst = val
	case int64:
		*dst = int(val)
	case bool:
		// The environment reads "1" and "0" as booleans.
		if val {
			*dst = 1
		} else {
			*dst = 0
		}
	default:
		d.mismatch(path, "int", v)
	}
}

func (d *decoder) stringAt(path string, dst *string) {
	v, ok := loader.GetPath(d.data, path)
	if !ok {
		return
	}
	switch val := v.(type) {
	case string:
		*dst = val
	case int64:
		// SCROLLPANE_LISTEN=8080 style values.
		*dst = fmt.Sprint(val)
	default:
		d.mismatch(path, "string", v)
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
