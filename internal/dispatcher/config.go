package dispatcher

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables request counting and round timing.
	EnableMetrics bool

	// MaxRequests bounds the number of requests handled in one round,
	// including nested ones. Requests beyond the bound are answered with an
	// error response. Zero means no limit.
	MaxRequests int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics: false,
		MaxRequests:   0,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithMaxRequests returns a copy of the config with the round bound set.
func (c Config) WithMaxRequests(max int) Config {
	c.MaxRequests = max
	return c
}
