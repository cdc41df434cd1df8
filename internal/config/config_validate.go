// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package config

import (
	"fmt"

	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/validation"
)

// Validate checks that the configuration is complete and consistent.
// Field-level rules come from the validate struct tags; the checks below
// cover rules that span several fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateSVD(); err != nil {
		return err
	}

	return c.validateRecommend()
}

// validateLogging validates the log level name
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is invalid: must be one of trace, debug, info, warn, error, fatal, panic, disabled", c.Logging.Level)
	}
	return nil
}

// validateSVD validates the rating scale used to clip predictions
func (c *Config) validateSVD() error {
	if c.SVD.MinRating >= c.SVD.MaxRating {
		return fmt.Errorf("svd.min_rating (%g) must be less than svd.max_rating (%g)", c.SVD.MinRating, c.SVD.MaxRating)
	}
	return nil
}

// validateRecommend validates the hybrid weights
func (c *Config) validateRecommend() error {
	if c.Recommend.CollaborativeWeight == 0 && c.Recommend.ContentWeight == 0 {
		return fmt.Errorf("recommend.collaborative_weight and recommend.content_weight cannot both be zero")
	}
	return nil
}
