// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package config

import "unicode/utf8"

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting (see defaultConfig)
//  2. Config File: Optional YAML file (filmwise.yaml, config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any mapped setting (see envTransformFunc)
//
// Configuration Categories:
//
//  1. Pipeline inputs and outputs:
//     - Data: ratings file, movie catalog, cleaned snapshot, title aliases
//     - Warehouse: DuckDB file holding the merged snapshot
//     - Report: insight report format
//
//  2. Models:
//     - SVD: collaborative model hyperparameters and train/test split
//     - Content: TF-IDF tokenizer settings
//     - Models: BadgerDB model store
//     - Recommend: hybrid weights and list length
//
//  3. Observability and interaction:
//     - Logging: zerolog level and format
//     - Metrics: Prometheus textfile output
//     - Shell: interactive prompt
//
// Config is immutable after LoadWithKoanf() returns.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Logging   LoggingConfig   `koanf:"logging"`
	SVD       SVDConfig       `koanf:"svd"`
	Content   ContentConfig   `koanf:"content"`
	Recommend RecommendConfig `koanf:"recommend"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Models    ModelsConfig    `koanf:"models"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Report    ReportConfig    `koanf:"report"`
	Shell     ShellConfig     `koanf:"shell"`
}

// DataConfig locates the pipeline's input and output files.
//
// Environment Variables:
//   - FILMWISE_RATINGS_PATH: raw ratings file (default: data/raw/raw_data.csv)
//   - FILMWISE_CATALOG_PATH: movie catalog (default: data/catalog/movies.csv)
//   - FILMWISE_SNAPSHOT_PATH: merged snapshot export (default: data/cleaned/expanded.csv)
//   - FILMWISE_DELIMITER: field delimiter for all three files (default: ",")
type DataConfig struct {
	RatingsPath  string `koanf:"ratings_path" validate:"required"`
	CatalogPath  string `koanf:"catalog_path" validate:"required"`
	SnapshotPath string `koanf:"snapshot_path" validate:"required"`
	Delimiter    string `koanf:"delimiter" validate:"len=1"`

	// TitleAliases maps a normalized title to its canonical normalized form.
	// Keys and values are normalized again on use, so "Matrix" and "matrix"
	// are equivalent keys. Entries extend the built-in alias table and
	// replace built-in entries with the same key.
	TitleAliases map[string]string `koanf:"title_aliases"`
}

// DelimiterRune returns the field delimiter as a rune.
func (d *DataConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	return r
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: console)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Console suits interactive use; json suits log shipping.
	// Default: console
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SVDConfig holds the biased matrix factorization hyperparameters.
//
// Environment Variables:
//   - SVD_FACTORS: latent factors (default: 100)
//   - SVD_EPOCHS: SGD passes over the training set (default: 20)
//   - SVD_LEARNING_RATE: SGD step size (default: 0.005)
//   - SVD_REGULARIZATION: L2 penalty on biases and factors (default: 0.02)
//   - SVD_INIT_STD: standard deviation of initial factors (default: 0.1)
//   - SVD_TEST_RATIO: share of ratings held out for RMSE (default: 0.2)
//   - SVD_SEED: random seed for split and initialization (default: 42)
type SVDConfig struct {
	Factors        int     `koanf:"factors" validate:"min=1,max=1000"`
	Epochs         int     `koanf:"epochs" validate:"min=1,max=10000"`
	LearningRate   float64 `koanf:"learning_rate" validate:"gt=0,lte=1"`
	Regularization float64 `koanf:"regularization" validate:"gte=0"`
	InitStd        float64 `koanf:"init_std" validate:"gte=0"`
	TestRatio      float64 `koanf:"test_ratio" validate:"gte=0,lt=1"`
	Seed           int64   `koanf:"seed"`
	MinRating      float64 `koanf:"min_rating"`
	MaxRating      float64 `koanf:"max_rating"`
}

// ContentConfig holds TF-IDF tokenizer settings.
//
// Environment Variables:
//   - CONTENT_MIN_TOKEN_LENGTH: shortest token kept (default: 2)
//   - CONTENT_STOP_WORDS: comma-separated extra stop words (default: none)
type ContentConfig struct {
	MinTokenLength int      `koanf:"min_token_length" validate:"min=1"`
	StopWords      []string `koanf:"stop_words"`
}

// RecommendConfig holds hybrid recommender settings.
//
// Environment Variables:
//   - RECOMMEND_COLLABORATIVE_WEIGHT: weight of the SVD prediction (default: 0.7)
//   - RECOMMEND_CONTENT_WEIGHT: weight of the content similarity (default: 0.3)
//   - RECOMMEND_TOP_N: recommendations per request (default: 5)
//   - RECOMMEND_CACHE_SIZE: ranked lists kept in memory, 0 disables (default: 1024)
type RecommendConfig struct {
	CollaborativeWeight float64 `koanf:"collaborative_weight" validate:"gte=0"`
	ContentWeight       float64 `koanf:"content_weight" validate:"gte=0"`
	TopN                int     `koanf:"top_n" validate:"min=1,max=1000"`
	CacheSize           int     `koanf:"cache_size" validate:"min=0"`
}

// WarehouseConfig holds DuckDB settings for the merged snapshot.
//
// Environment Variables:
//   - WAREHOUSE_PATH: DuckDB database file, empty for in-memory (default: data/warehouse/filmwise.duckdb)
type WarehouseConfig struct {
	Path string `koanf:"path"`
}

// ModelsConfig holds BadgerDB model store settings.
//
// Environment Variables:
//   - MODELS_ENABLED: reuse trained models across runs (default: true)
//   - MODELS_PATH: BadgerDB directory (default: data/models)
type ModelsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// MetricsConfig holds Prometheus textfile settings.
//
// Environment Variables:
//   - METRICS_TEXTFILE_PATH: file written on exit, empty to disable (default: "")
type MetricsConfig struct {
	TextfilePath string `koanf:"textfile_path"`
}

// ReportConfig selects how the insight report is rendered.
//
// Environment Variables:
//   - REPORT_FORMAT: text or json (default: text)
type ReportConfig struct {
	Format string `koanf:"format" validate:"oneof=text json"`
}

// ShellConfig holds interactive shell settings.
//
// Environment Variables:
//   - SHELL_PROMPT: prompt printed before each read
//   - SHELL_COLOR: style headers with ANSI colors (default: true)
type ShellConfig struct {
	Prompt string `koanf:"prompt"`
	Color  bool   `koanf:"color"`
}
