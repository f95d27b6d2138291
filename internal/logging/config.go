package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  zapcore.Level     `koanf:"level" yaml:"level"`
	Format string            `koanf:"format" yaml:"format"`
	Caller bool              `koanf:"caller" yaml:"caller"`
	Fields map[string]string `koanf:"fields" yaml:"fields,omitempty"`
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
		Fields: map[string]string{
			"service": "recipevec",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if c.Level < zapcore.DebugLevel || c.Level > zapcore.FatalLevel {
		return fmt.Errorf("unsupported level %v", c.Level)
	}
	return nil
}
