// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/filmwise/internal/dataset"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"filmwise.yaml",
	"config.yaml",
	"config.yml",
	"/etc/filmwise/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RatingsPath:  "data/raw/raw_data.csv",
			CatalogPath:  "data/catalog/movies.csv",
			SnapshotPath: "data/cleaned/expanded.csv",
			Delimiter:    ",",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		SVD: SVDConfig{
			Factors:        100,
			Epochs:         20,
			LearningRate:   0.005,
			Regularization: 0.02,
			InitStd:        0.1,
			TestRatio:      0.2,
			Seed:           42,
			MinRating:      1,
			MaxRating:      5,
		},
		Content: ContentConfig{
			MinTokenLength: 2,
			StopWords:      []string{},
		},
		Recommend: RecommendConfig{
			CollaborativeWeight: 0.7,
			ContentWeight:       0.3,
			TopN:                5,
			CacheSize:           1024,
		},
		Warehouse: WarehouseConfig{
			Path: "data/warehouse/filmwise.duckdb",
		},
		Models: ModelsConfig{
			Enabled: true,
			Path:    "data/models",
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
		},
		Report: ReportConfig{
			Format: "text",
		},
		Shell: ShellConfig{
			Prompt: "Enter a user ID (or 'exit' to quit): ",
			Color:  true,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// FILMWISE_RATINGS_PATH -> data.ratings_path
	// RECOMMEND_TOP_N -> recommend.top_n
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Built-in aliases stay out of the koanf layers so that a configured
	// key replaces its built-in entry deterministically.
	cfg.Data.TitleAliases = dataset.WithBuiltinAliases(cfg.Data.TitleAliases)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"content.stop_words",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Data files
	"filmwise_ratings_path":  "data.ratings_path",
	"filmwise_catalog_path":  "data.catalog_path",
	"filmwise_snapshot_path": "data.snapshot_path",
	"filmwise_delimiter":     "data.delimiter",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Collaborative model
	"svd_factors":        "svd.factors",
	"svd_epochs":         "svd.epochs",
	"svd_learning_rate":  "svd.learning_rate",
	"svd_regularization": "svd.regularization",
	"svd_init_std":       "svd.init_std",
	"svd_test_ratio":     "svd.test_ratio",
	"svd_seed":           "svd.seed",

	// Content model
	"content_min_token_length": "content.min_token_length",
	"content_stop_words":       "content.stop_words",

	// Hybrid recommender
	"recommend_collaborative_weight": "recommend.collaborative_weight",
	"recommend_content_weight":       "recommend.content_weight",
	"recommend_top_n":                "recommend.top_n",
	"recommend_cache_size":           "recommend.cache_size",

	// Storage
	"warehouse_path": "warehouse.path",
	"models_enabled": "models.enabled",
	"models_path":    "models.path",

	// Output
	"metrics_textfile_path": "metrics.textfile_path",
	"report_format":         "report.format",
	"shell_prompt":          "shell.prompt",
	"shell_color":           "shell.color",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - FILMWISE_RATINGS_PATH -> data.ratings_path
//   - LOG_LEVEL -> logging.level
//   - SVD_FACTORS -> svd.factors
//   - RECOMMEND_TOP_N -> recommend.top_n
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so unrelated environment never leaks into config.
	return ""
}
