// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package recommend

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("weights are the 70/30 blend", func(t *testing.T) {
		if cfg.Weights.Collaborative != 0.7 || cfg.Weights.Content != 0.3 {
			t.Errorf("Weights = %+v, want 0.7/0.3", cfg.Weights)
		}
	})

	t.Run("limits config has valid defaults", func(t *testing.T) {
		if cfg.Limits.DefaultN != 5 {
			t.Errorf("Limits.DefaultN = %d, want 5", cfg.Limits.DefaultN)
		}
		if cfg.Limits.MaxN < cfg.Limits.DefaultN {
			t.Errorf("Limits.MaxN = %d, want >= DefaultN (%d)", cfg.Limits.MaxN, cfg.Limits.DefaultN)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"collaborative only", func(c *Config) { c.Weights.Content = 0 }, false},
		{"content only", func(c *Config) { c.Weights.Collaborative = 0 }, false},
		{"negative collaborative", func(c *Config) { c.Weights.Collaborative = -0.1 }, true},
		{"negative content", func(c *Config) { c.Weights.Content = -1 }, true},
		{"all zero", func(c *Config) { c.Weights = Weights{} }, true},
		{"zero default n", func(c *Config) { c.Limits.DefaultN = 0 }, true},
		{"max below default", func(c *Config) { c.Limits.MaxN = 2 }, true},
		{"cache without entries", func(c *Config) { c.Cache.MaxEntries = 0 }, true},
		{"cache disabled without entries", func(c *Config) { c.Cache = CacheConfig{} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.Weights.Collaborative = 0.1
	clone.Limits.DefaultN = 50

	if original.Weights.Collaborative != 0.7 {
		t.Error("modifying clone changed original weights")
	}
	if original.Limits.DefaultN != 5 {
		t.Error("modifying clone changed original limits")
	}
}
