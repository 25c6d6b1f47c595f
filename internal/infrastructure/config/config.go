// Package config loads backend configuration from the environment,
// with an optional YAML overlay file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Terminal  TerminalConfig
	Storage   StorageConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// TerminalConfig holds command execution configuration.
type TerminalConfig struct {
	Shell          string        `envconfig:"TERMINAL_SHELL" default:"/bin/sh" yaml:"shell"`
	Timeout        time.Duration `envconfig:"TERMINAL_TIMEOUT" default:"30s" yaml:"timeout"`
	MaxOutputBytes int           `envconfig:"TERMINAL_MAX_OUTPUT" default:"262144" yaml:"max_output_bytes"`
}

// StorageConfig holds snapshot persistence configuration.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH" default:"/tmp/termflow-storage" yaml:"path"`
}

// Load loads configuration from environment variables, then applies the
// YAML overlay file named by CONFIG_FILE when present.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Terminal: TerminalConfig{
			Shell:          "/bin/sh",
			Timeout:        30 * time.Second,
			MaxOutputBytes: 262144,
		},
		Storage: StorageConfig{
			Path: "/tmp/termflow-storage",
		},
	}
}

// applyFile overlays YAML file values onto the loaded configuration
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay struct {
		Server    *ServerConfig    `yaml:"server"`
		Logging   *LogConfig       `yaml:"logging"`
		RateLimit *RateLimitConfig `yaml:"rate_limit"`
		Terminal  *TerminalConfig  `yaml:"terminal"`
		Storage   *StorageConfig   `yaml:"storage"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if overlay.Server != nil {
		cfg.Server = *overlay.Server
	}
	if overlay.Logging != nil {
		cfg.Logging = *overlay.Logging
	}
	if overlay.RateLimit != nil {
		cfg.RateLimit = *overlay.RateLimit
	}
	if overlay.Terminal != nil {
		cfg.Terminal = *overlay.Terminal
	}
	if overlay.Storage != nil {
		cfg.Storage = *overlay.Storage
	}

	return nil
}
