// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmwise/internal/config"
	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend/algorithms"
	"github.com/tomtom215/filmwise/internal/recommend/storage"
)

// ModelComponents holds the trained models.
type ModelComponents struct {
	SVD      *algorithms.SVD
	Content  *algorithms.ContentSpace
	RMSE     float64
	TestSize int
}

// initModels trains or restores the SVD model, evaluates it on the
// held-out split and builds the content space.
func initModels(ctx context.Context, cfg *config.Config, data *DataComponents) (*ModelComponents, error) {
	logger := logging.WithComponent("models")
	ctx = logging.ContextWithLogger(ctx, logger)

	svdCfg := buildSVDConfig(cfg)
	train, test := algorithms.SplitTrainTest(data.Ratings, cfg.SVD.TestRatio, cfg.SVD.Seed)

	svd, rmse, err := loadOrTrainSVD(ctx, cfg, svdCfg, train, test, logger)
	if err != nil {
		return nil, err
	}
	if len(test) > 0 {
		metrics.ModelRMSE.Set(rmse)
	}
	logger.Info().Int("train", len(train)).Int("test", len(test)).Float64("rmse", rmse).Msg("SVD ready")

	start := time.Now()
	content, err := algorithms.BuildContentSpace(ctx, algorithms.MovieDocs(data.Rows), algorithms.ContentConfig{
		MinTokenLength: cfg.Content.MinTokenLength,
		StopWords:      cfg.Content.StopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("build content space: %w", err)
	}
	metrics.RecordTraining(content.Name(), time.Since(start))
	logger.Info().Int("movies", content.Len()).Dur("duration", time.Since(start)).Msg("Content space built")

	return &ModelComponents{SVD: svd, Content: content, RMSE: rmse, TestSize: len(test)}, nil
}

// loadOrTrainSVD restores a model trained on the same data and settings
// from the model store, or trains and stores a new one. It returns the
// model and its RMSE on test.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func loadOrTrainSVD(ctx context.Context, cfg *config.Config, svdCfg algorithms.SVDConfig, train, test []dataset.Rating, logger zerolog.Logger) (*algorithms.SVD, float64, error) {
	if !cfg.Models.Enabled {
		svd, err := trainSVD(ctx, svdCfg, train)
		if err != nil {
			return nil, 0, err
		}
		rmse, err := evaluateSVD(ctx, svd, test)
		return svd, rmse, err
	}

	store, err := storage.Open(cfg.Models.Path)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing model store")
		}
	}()

	fingerprint := storage.Fingerprint(train, svdCfg)
	svd, meta, err := store.LoadSVD(ctx, fingerprint)
	switch {
	case err == nil:
		logger.Info().
			Str("fingerprint", fingerprint).
			Time("trained_at", meta.TrainedAt).
			Float64("stored_rmse", meta.RMSE).
			Msg("Restored SVD model from store")
		rmse, err := evaluateSVD(ctx, svd, test)
		return svd, rmse, err
	case errors.Is(err, storage.ErrModelNotFound):
		logger.Debug().Str("fingerprint", fingerprint).Msg("No stored SVD model, training")
	default:
		logger.Warn().Err(err).Msg("Stored SVD model unusable, retraining")
	}

	start := time.Now()
	svd, err = trainSVD(ctx, svdCfg, train)
	if err != nil {
		return nil, 0, err
	}
	duration := time.Since(start)

	rmse, err := evaluateSVD(ctx, svd, test)
	if err != nil {
		return nil, 0, err
	}

	meta = &storage.ModelMetadata{
		RatingCount:        len(train),
		RMSE:               rmse,
		TrainingDurationMS: duration.Milliseconds(),
	}
	if err := store.SaveSVD(ctx, fingerprint, svd, *meta); err != nil {
		logger.Warn().Err(err).Msg("Failed to save SVD model")
	} else if removed, err := store.Prune(ctx, storage.SVDModelName, fingerprint); err == nil && removed > 0 {
		logger.Debug().Int("removed", removed).Msg("Pruned stale SVD models")
	}
	return svd, rmse, nil
}

// evaluateSVD returns the RMSE of svd on test, or 0 when test is empty.
func evaluateSVD(ctx context.Context, svd *algorithms.SVD, test []dataset.Rating) (float64, error) {
	if len(test) == 0 {
		return 0, nil
	}
	rmse, err := svd.RMSE(ctx, test)
	if err != nil {
		return 0, fmt.Errorf("evaluate svd: %w", err)
	}
	return rmse, nil
}

func trainSVD(ctx context.Context, svdCfg algorithms.SVDConfig, train []dataset.Rating) (*algorithms.SVD, error) {
	svd := algorithms.NewSVD(svdCfg)
	start := time.Now()
	if err := svd.Train(ctx, train); err != nil {
		return nil, fmt.Errorf("train svd: %w", err)
	}
	metrics.RecordTraining(svd.Name(), time.Since(start))
	return svd, nil
}

func buildSVDConfig(cfg *config.Config) algorithms.SVDConfig {
	return algorithms.SVDConfig{
		Factors:        cfg.SVD.Factors,
		Epochs:         cfg.SVD.Epochs,
		LearningRate:   cfg.SVD.LearningRate,
		Regularization: cfg.SVD.Regularization,
		InitStd:        cfg.SVD.InitStd,
		Seed:           cfg.SVD.Seed,
		MinRating:      cfg.SVD.MinRating,
		MaxRating:      cfg.SVD.MaxRating,
	}
}
