// Package config provides configuration loading for embedd.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the embedd service.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Embedding     EmbeddingConfig     `koanf:"embedding"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	// Model is the embedding model identifier.
	// Overridable via EMBEDDING_MODEL.
	Model string `koanf:"model"`

	// CacheDir is the directory to cache downloaded model files.
	CacheDir string `koanf:"cache_dir"`

	// MaxLength is the maximum input sequence length in tokens.
	MaxLength int `koanf:"max_length"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// ObservabilityConfig holds telemetry configuration.
type ObservabilityConfig struct {
	ServiceName string `koanf:"service_name"`

	// Metrics enables the Prometheus /metrics endpoint.
	Metrics bool `koanf:"metrics"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Embedding.MaxLength == 0 {
		cfg.Embedding.MaxLength = 256
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "embedd"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding model is required")
	}
	if c.Embedding.MaxLength < 1 {
		return fmt.Errorf("invalid embedding max_length: %d", c.Embedding.MaxLength)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	return nil
}
