package config

import (
	"fmt"
	"time"

	"github.com/jackzampolin/fraglab/internal/segment"
)

// Config holds fraglab configuration.
// Stored at: ~/.fraglab/config.yaml
type Config struct {
	Analysis AnalysisCfg `mapstructure:"analysis" yaml:"analysis"`
	Composer ComposerCfg `mapstructure:"composer" yaml:"composer"`
	Server   ServerCfg   `mapstructure:"server" yaml:"server"`
}

// AnalysisCfg configures the Analysis Service client.
type AnalysisCfg struct {
	BaseURL              string `mapstructure:"base_url" yaml:"base_url"`                             // supports ${ENV_VAR} syntax
	TimeoutSeconds       int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`               // 0 = no client-side timeout
	HealthTimeoutSeconds int    `mapstructure:"health_timeout_seconds" yaml:"health_timeout_seconds"` // readiness wait at startup
}

// ComposerCfg sizes the segment model.
type ComposerCfg struct {
	ChunkSize      int64  `mapstructure:"chunk_size" yaml:"chunk_size"`
	FillerSize     int64  `mapstructure:"filler_size" yaml:"filler_size"`
	DefaultVariant string `mapstructure:"default_variant" yaml:"default_variant"`
}

// ServerCfg holds the HTTP listen address.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisCfg{
			BaseURL:              "http://localhost:8080/api",
			TimeoutSeconds:       0,
			HealthTimeoutSeconds: 5,
		},
		Composer: ComposerCfg{
			ChunkSize:      4096,
			FillerSize:     segment.DefaultFillerSize,
			DefaultVariant: string(segment.VariantRandom),
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8090",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Composer.ChunkSize <= 0 {
		return fmt.Errorf("composer.chunk_size must be positive, got %d", c.Composer.ChunkSize)
	}
	if c.Composer.FillerSize <= 0 {
		return fmt.Errorf("composer.filler_size must be positive, got %d", c.Composer.FillerSize)
	}
	if _, err := segment.ParseVariant(c.Composer.DefaultVariant); err != nil {
		return fmt.Errorf("composer.default_variant: %w", err)
	}
	if c.Analysis.TimeoutSeconds < 0 {
		return fmt.Errorf("analysis.timeout_seconds cannot be negative")
	}
	return nil
}

// AnalysisURL returns the service base URL with ${ENV_VAR} references resolved.
func (c *Config) AnalysisURL() string {
	return ResolveEnvVars(c.Analysis.BaseURL)
}

// AnalysisTimeout returns the client timeout. Zero means none.
func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

// HealthTimeout returns how long to wait for the service at startup.
func (c *Config) HealthTimeout() time.Duration {
	return time.Duration(c.Analysis.HealthTimeoutSeconds) * time.Second
}

// Variant returns the parsed default filler variant.
func (c *Config) Variant() segment.Variant {
	v, err := segment.ParseVariant(c.Composer.DefaultVariant)
	if err != nil {
		return segment.VariantRandom
	}
	return v
}
