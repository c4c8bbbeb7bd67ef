package loader

import (
	"os"
	"strconv"
	"strings"
)

// Prefix is the prefix of environment variables scanned by default.
const Prefix = "SCROLLPANE_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // scanned prefix, e.g. "SCROLLPANE_"
	mapping map[string]string // env var -> config path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a loader with the default mappings.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, DefaultEnvMapping())
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// DefaultEnvMapping returns the variables read without a prefix, plus the
// prefixed ones whose names don't follow the SECTION_SETTING pattern.
func DefaultEnvMapping() map[string]string {
	return map[string]string{
		"LINE_WRAP":                  "scroll.lineWrap",
		"WORD_WRAP":                  "scroll.wordWrap",
		"MAX_ENTRIES":                "scroll.maxEntries",
		"SCROLLPANE_MAX_BATCH":       "scroll.maxBatch",
		"SCROLLPANE_MAX_ENTRY_WIDTH": "scroll.maxEntryWidth",
		"SCROLLPANE_LOG_LEVEL":       "logging.level",
		"SCROLLPANE_LOG_FILE":        "logging.file",
		"SCROLLPANE_LISTEN":          "server.listen",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			SetPath(config, path, ParseValue(val))
		}
	}

	if l.prefix == "" {
		return config, nil
	}
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		SetPath(config, l.envToPath(name), ParseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts SCROLLPANE_SCROLL_MAX_ENTRIES to scroll.maxEntries.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// ParseValue converts an environment string into a bool, int64, float64
// or string, in that order of preference.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	lower := strings.ToLower(s)
	if lower == "true" || lower == "yes" || lower == "on" || s == "1" {
		return true
	}
	if lower == "false" || lower == "no" || lower == "off" || s == "0" {
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point, so ints stay ints.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
