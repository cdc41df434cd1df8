// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the contribution of each scoring axis.
	Weights Weights `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`
}

// Weights defines the relative contribution of the collaborative and
// content scores to the combined score. They are applied as given, not
// normalized, so the combined score stays on the rating scale when they
// sum to 1.
type Weights struct {
	// Collaborative is the weight of the predicted rating.
	Collaborative float64 `json:"collaborative"`

	// Content is the weight of the content similarity.
	Content float64 `json:"content"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is the number of recommendations returned when the caller
	// does not ask for a specific count.
	DefaultN int `json:"default_n"`

	// MaxN caps the number of recommendations per request.
	MaxN int `json:"max_n"`
}

// CacheConfig contains caching parameters for ranked lists.
type CacheConfig struct {
	// Enabled controls whether ranked lists are memoized per user and count.
	Enabled bool `json:"enabled"`

	// MaxEntries is the maximum number of cached lists.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with the standard 70/30 hybrid blend.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Collaborative: 0.7,
			Content:       0.3,
		},
		Limits: LimitsConfig{
			DefaultN: 5,
			MaxN:     1000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Collaborative < 0 {
		return fmt.Errorf("weights.collaborative must be non-negative, got %f", c.Weights.Collaborative)
	}
	if c.Weights.Content < 0 {
		return fmt.Errorf("weights.content must be non-negative, got %f", c.Weights.Content)
	}
	if c.Weights.Collaborative == 0 && c.Weights.Content == 0 {
		return fmt.Errorf("weights must not all be zero")
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when caching is enabled, got %d", c.Cache.MaxEntries)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
