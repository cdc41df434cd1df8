// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package main is the entry point for Filmwise.
//
// Filmwise cleans a messy ratings file, joins it to a movie catalog, prints
// descriptive insights and then serves hybrid recommendations from an
// interactive prompt.
//
// # Pipeline
//
// The program runs these steps in order:
//
//  1. Configuration: Load settings from defaults, YAML and environment (Koanf v2)
//  2. Cleaning: Parse and normalize raw ratings, fill and collapse them
//  3. Merge: Left-join cleaned ratings to the catalog on normalized title
//  4. Warehouse: Store the merged snapshot in DuckDB and export it as CSV
//  5. Insights: Print the insight report to stdout
//  6. Models: Train (or restore from BadgerDB) the SVD model and report its RMSE,
//     then build the TF-IDF content space
//  7. Shell: Read user IDs from stdin and print recommendations
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (FILMWISE_RATINGS_PATH, SVD_EPOCHS, LOG_LEVEL, ...)
//   - Config file (filmwise.yaml, config.yaml or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the pipeline context. Training and the shell stop
// at the next check and the program exits after closing its stores.
//
// # Example Usage
//
//	export FILMWISE_RATINGS_PATH=data/raw/raw_data.csv
//	export FILMWISE_CATALOG_PATH=data/catalog/movies.csv
//	./filmwise
//
// Fast run with a small model and JSON report:
//
//	SVD_FACTORS=10 SVD_EPOCHS=5 REPORT_FORMAT=json ./filmwise
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/filmwise/internal/config"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend"
	"github.com/tomtom215/filmwise/internal/report"
	"github.com/tomtom215/filmwise/internal/shell"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()

	if cfg.Metrics.TextfilePath != "" {
		if werr := metrics.WriteTextfile(cfg.Metrics.TextfilePath); werr != nil {
			logging.Error().Err(werr).Msg("Failed to write metrics textfile")
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Interrupted")
		} else {
			logging.Error().Err(err).Msg("Filmwise failed")
		}
		os.Exit(1)
	}
}

// run executes the pipeline and the interactive shell.
func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("ratings", cfg.Data.RatingsPath).
		Str("catalog", cfg.Data.CatalogPath).
		Str("warehouse", cfg.Warehouse.Path).
		Bool("model_store", cfg.Models.Enabled).
		Msg("Starting Filmwise")

	data, err := initData(ctx, cfg)
	if err != nil {
		return err
	}

	if err := report.Write(os.Stdout, cfg.Report.Format, data.Report, cfg.Shell.Color); err != nil {
		return err
	}

	models, err := initModels(ctx, cfg, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSVD RMSE on %d held-out ratings: %.4f\n\n", models.TestSize, models.RMSE)

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), models.SVD, models.Content,
		data.Ratings, logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	sh := shell.New(engine, shell.Options{
		Prompt: cfg.Shell.Prompt,
		Color:  cfg.Shell.Color,
		N:      cfg.Recommend.TopN,
	}, os.Stdout)

	return sh.Run(ctx, os.Stdin)
}

// buildEngineConfig maps application configuration to the engine's.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Weights.Collaborative = cfg.Recommend.CollaborativeWeight
	engineCfg.Weights.Content = cfg.Recommend.ContentWeight
	engineCfg.Limits.DefaultN = cfg.Recommend.TopN
	engineCfg.Cache.Enabled = cfg.Recommend.CacheSize > 0
	engineCfg.Cache.MaxEntries = cfg.Recommend.CacheSize
	if engineCfg.Limits.MaxN < engineCfg.Limits.DefaultN {
		engineCfg.Limits.MaxN = engineCfg.Limits.DefaultN
	}
	return engineCfg
}
