// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tomtom215/filmwise/internal/config"
	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/insights"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/report"
	"github.com/tomtom215/filmwise/internal/warehouse"
)

// errNoRatings is returned when cleaning leaves nothing to train on.
var errNoRatings = errors.New("no usable ratings after cleaning")

// DataComponents holds the cleaned and merged dataset.
type DataComponents struct {
	Rows    []dataset.MergedRow
	Ratings []dataset.Rating
	Report  insights.Report
}

// initData loads, cleans and merges the input files, stores the merged
// snapshot in the warehouse and computes the insight report.
func initData(ctx context.Context, cfg *config.Config) (*DataComponents, error) {
	logger := logging.WithComponent("pipeline")
	delimiter := cfg.Data.DelimiterRune()
	aliases := dataset.NewAliases(dataset.WithBuiltinAliases(cfg.Data.TitleAliases))

	raw, err := dataset.LoadRatings(cfg.Data.RatingsPath, delimiter)
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsLoaded("ratings", len(raw))

	cleaned := dataset.Clean(raw, dataset.CleanOptions{Aliases: aliases})
	stats := cleaned.Stats
	metrics.RecordCleaning(stats.RowsOut, stats.UnresolvableDropped, stats.MissingKeyDropped, stats.DuplicatesCollapsed)
	logger.Info().
		Int("rows_in", stats.RowsIn).
		Int("rows_out", stats.RowsOut).
		Int("unresolvable", stats.UnresolvableDropped).
		Int("missing_key", stats.MissingKeyDropped).
		Int("collapsed", stats.DuplicatesCollapsed).
		Msg("Ratings cleaned")
	if err := report.WriteCleanStats(os.Stdout, stats); err != nil {
		return nil, err
	}
	if len(cleaned.Ratings) == 0 {
		return nil, errNoRatings
	}

	catalog, err := dataset.LoadCatalog(cfg.Data.CatalogPath, delimiter)
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsLoaded("catalog", len(catalog.Entries))

	merged := dataset.Merge(cleaned.Ratings, catalog, aliases)
	if len(merged.Unmatched) > 0 {
		metrics.CatalogUnmatched.Add(float64(len(merged.Unmatched)))
		logger.Warn().
			Int("count", len(merged.Unmatched)).
			Strs("titles", merged.Unmatched).
			Msg("Titles missing from catalog")
	}
	if merged.DuplicateCatalogKeys > 0 {
		logger.Warn().Int("count", merged.DuplicateCatalogKeys).Msg("Duplicate catalog titles ignored")
	}

	if err := saveSnapshot(ctx, cfg, merged); err != nil {
		return nil, err
	}

	return &DataComponents{
		Rows:    merged.Rows,
		Ratings: dataset.Ratings(merged.Rows),
		Report:  insights.Extract(merged.Rows),
	}, nil
}

// saveSnapshot writes the merged rows to the warehouse, exports them and
// checks that every row arrived.
//
//nolint:gocritic // MergeResult passed by value is read-only
func saveSnapshot(ctx context.Context, cfg *config.Config, merged dataset.MergeResult) error {
	wh, err := warehouse.Open(ctx, cfg.Warehouse.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := wh.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing warehouse")
		}
	}()

	if err := wh.SaveMerged(ctx, merged.Rows, merged.MetadataColumns); err != nil {
		return err
	}
	if err := wh.ExportCSV(ctx, cfg.Data.SnapshotPath, cfg.Data.DelimiterRune()); err != nil {
		return err
	}

	n, err := wh.CountRows(ctx)
	if err != nil {
		return err
	}
	if n != int64(len(merged.Rows)) {
		return fmt.Errorf("warehouse holds %d rows, expected %d", n, len(merged.Rows))
	}

	logging.Info().
		Int64("rows", n).
		Str("snapshot", cfg.Data.SnapshotPath).
		Msg("Merged snapshot saved")
	return nil
}
