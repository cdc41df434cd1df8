// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

/*
Package config provides centralized configuration management for Filmwise.

Configuration is assembled with Koanf v2 from three layers, later layers
overriding earlier ones:

  - Built-in defaults (structs provider)
  - An optional YAML file: $CONFIG_PATH, filmwise.yaml, config.yaml,
    config.yml or /etc/filmwise/config.yaml, first match wins
  - Environment variables, through an explicit name mapping

Filmwise takes no command-line flags; everything is set through the file or
the environment.

# Example File

	data:
	  ratings_path: data/raw/raw_data.csv
	  catalog_path: data/catalog/movies.csv
	  snapshot_path: data/cleaned/expanded.csv
	  title_aliases:
	    lotr: the lord of the rings
	svd:
	  factors: 50
	  epochs: 30
	recommend:
	  collaborative_weight: 0.7
	  content_weight: 0.3
	logging:
	  level: debug

# Environment Variables

Data:
  - FILMWISE_RATINGS_PATH, FILMWISE_CATALOG_PATH, FILMWISE_SNAPSHOT_PATH
  - FILMWISE_DELIMITER

Models:
  - SVD_FACTORS, SVD_EPOCHS, SVD_LEARNING_RATE, SVD_REGULARIZATION
  - SVD_INIT_STD, SVD_TEST_RATIO, SVD_SEED
  - CONTENT_MIN_TOKEN_LENGTH, CONTENT_STOP_WORDS (comma-separated)
  - RECOMMEND_COLLABORATIVE_WEIGHT, RECOMMEND_CONTENT_WEIGHT, RECOMMEND_TOP_N,
    RECOMMEND_CACHE_SIZE
  - MODELS_ENABLED, MODELS_PATH

Everything else:
  - WAREHOUSE_PATH, METRICS_TEXTFILE_PATH, REPORT_FORMAT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - SHELL_PROMPT, SHELL_COLOR

# Validation

LoadWithKoanf validates the result with go-playground/validator struct tags
(see internal/validation) and a few cross-field checks. Errors name the YAML
key that failed, e.g. "svd.factors must be at least 1".
*/
package config
