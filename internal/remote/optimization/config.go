// internal/remote/optimization/config.go
package optimization

import "time"

type Config struct {
	BaseURL string
	Timeout time.Duration

	// SynthesizeFallback switches the degraded path from an absent outcome to
	// a locally synthesized one. Off by default: callers communicate a missing
	// optimization with null, never with a stand-in payload.
	SynthesizeFallback bool
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
