// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Generator    GeneratorConfig    `mapstructure:"generator"`
	Compliance   ComplianceConfig   `mapstructure:"compliance"`
	Optimization OptimizationConfig `mapstructure:"optimization"`
	Health       HealthConfig       `mapstructure:"health"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// --- Collaborator Config ---

type GeneratorConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

func (g GeneratorConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}

type ComplianceConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"` // milliseconds
	FallbackReferenceURL string `mapstructure:"fallback_reference_url"`
	CacheEnabled         bool   `mapstructure:"cache_enabled"`
	CacheTTL             int    `mapstructure:"cache_ttl"` // seconds
}

func (c ComplianceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

func (c ComplianceConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

type OptimizationConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	Timeout            int    `mapstructure:"timeout"` // milliseconds
	SynthesizeFallback bool   `mapstructure:"synthesize_fallback"`
}

func (o OptimizationConfig) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Millisecond
}

// HealthConfig controls the dependency health tracker.
type HealthConfig struct {
	RevalidationWindow int `mapstructure:"revalidation_window"` // seconds
}

func (h HealthConfig) WindowDuration() time.Duration {
	return time.Duration(h.RevalidationWindow) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelemetryConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.Generator.BaseURL == "" {
		return fmt.Errorf("generator.base_url is required")
	}
	if cfg.Compliance.BaseURL == "" {
		return fmt.Errorf("compliance.base_url is required")
	}
	if cfg.Optimization.BaseURL == "" {
		return fmt.Errorf("optimization.base_url is required")
	}
	if cfg.Compliance.CacheEnabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when compliance.cache_enabled is true")
	}
	return nil
}
