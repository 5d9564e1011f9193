// internal/remote/compliance/config.go
package compliance

import "time"

type Config struct {
	BaseURL              string
	Timeout              time.Duration
	FallbackReferenceURL string
	CacheEnabled         bool
	CacheTTL             time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:              60 * time.Second,
		FallbackReferenceURL: "https://compliance.example.com/manual-review",
		CacheTTL:             15 * time.Minute,
	}
}
