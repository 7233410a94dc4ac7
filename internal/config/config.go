// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

// Package config loads and validates service configuration with a clear
// precedence: environment variables override an optional YAML file,
// which overrides built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/kinmap/internal/jobs"
	"github.com/tomtom215/kinmap/internal/recommend"
)

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig     `koanf:"server"`
	Jobs    JobsConfig       `koanf:"jobs"`
	Engine  recommend.Config `koanf:"engine"`
	Logging LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout applies to request reads and writes.
	Timeout time.Duration `koanf:"timeout"`

	// MaxUploadBytes caps the total size of one multipart submission.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the request budget per client per window.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off rate limiting entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
}

// JobsConfig configures job persistence and the worker pool.
type JobsConfig struct {
	// Store selects the job status store: "memory" or "badger".
	Store string `koanf:"store"`

	// StorePath is the BadgerDB directory, used when Store is "badger".
	StorePath string `koanf:"store_path"`

	// ArtifactDir is where result artifacts are written.
	ArtifactDir string `koanf:"artifact_dir"`

	// Runner sizes the worker pool.
	Runner jobs.RunnerConfig `koanf:"runner"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before any file
// or environment overrides.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8460,
			Timeout:         30 * time.Second,
			MaxUploadBytes:  64 << 20, // 64MB
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Jobs: JobsConfig{
			Store:       "memory",
			StorePath:   "/data/jobs",
			ArtifactDir: "/data/results",
			Runner:      jobs.DefaultRunnerConfig(),
		},
		Engine: *recommend.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_reqs must be at least 1, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}

	switch c.Jobs.Store {
	case "memory":
	case "badger":
		if c.Jobs.StorePath == "" {
			return fmt.Errorf("jobs.store_path required for badger store")
		}
	default:
		return fmt.Errorf("jobs.store must be memory or badger, got %q", c.Jobs.Store)
	}
	if c.Jobs.ArtifactDir == "" {
		return fmt.Errorf("jobs.artifact_dir must not be empty")
	}
	if err := c.Jobs.Runner.Validate(); err != nil {
		return fmt.Errorf("jobs.runner: %w", err)
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return nil
}
