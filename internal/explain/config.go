package explain

import "time"

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one explanation request. Zero means no limit beyond
	// the caller's context.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.3,
		Timeout:     20 * time.Second,
	}
}
