// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import "fmt"

// Config contains operational limits for the recommendation engine.
type Config struct {
	// MaxRecommendations caps the per-user recommendation count. Requests
	// asking for more are clamped, not rejected.
	MaxRecommendations int `koanf:"max_recommendations" json:"max_recommendations"`

	// MaxUsers caps the number of users a submitted relation file may
	// declare. Zero disables the limit.
	MaxUsers int `koanf:"max_users" json:"max_users"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRecommendations: 100,
		MaxUsers:           1_000_000,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("max_recommendations must be at least 1, got %d", c.MaxRecommendations)
	}
	if c.MaxUsers < 0 {
		return fmt.Errorf("max_users must not be negative, got %d", c.MaxUsers)
	}
	return nil
}
