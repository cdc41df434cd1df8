// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path labels for RecordRecommendation.
const (
	PathHybrid     = "hybrid"
	PathPopularity = "popularity"
)

var (
	// Dataset Metrics
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_rows_loaded_total",
			Help: "Total number of rows read from input files",
		},
		[]string{"source"}, // "ratings", "catalog"
	)

	RatingsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmwise_ratings_cleaned_total",
			Help: "Total number of rating records produced by the cleaner",
		},
	)

	RatingsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_ratings_dropped_total",
			Help: "Total number of raw rating rows removed during cleaning",
		},
		[]string{"reason"}, // "unresolvable", "missing_key", "collapsed"
	)

	CatalogUnmatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmwise_catalog_unmatched_total",
			Help: "Total number of distinct rated titles with no catalog entry",
		},
	)

	// Warehouse Metrics
	WarehouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmwise_warehouse_query_duration_seconds",
			Help:    "Duration of DuckDB warehouse operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	WarehouseQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_warehouse_query_errors_total",
			Help: "Total number of failed DuckDB warehouse operations",
		},
		[]string{"operation"},
	)

	// Model Metrics
	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmwise_training_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"model"}, // "svd", "tfidf"
	)

	ModelRMSE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmwise_model_rmse",
			Help: "Root mean squared error of the collaborative model on the held-out split",
		},
	)

	ModelStoreLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_model_store_lookups_total",
			Help: "Model store lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_recommendations_total",
			Help: "Total number of recommendation requests by ranking path",
		},
		[]string{"path"}, // "hybrid", "popularity"
	)

	RecommendationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmwise_recommendation_cache_lookups_total",
			Help: "Ranked list cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmwise_recommendation_duration_seconds",
			Help:    "Time to compute one recommendation list",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)
)

// RecordRowsLoaded adds n rows read from source.
func RecordRowsLoaded(source string, n int) {
	RowsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordCleaning records the outcome of one cleaning pass.
func RecordCleaning(cleaned, unresolvable, missingKey, collapsed int) {
	RatingsCleaned.Add(float64(cleaned))
	RatingsDropped.WithLabelValues("unresolvable").Add(float64(unresolvable))
	RatingsDropped.WithLabelValues("missing_key").Add(float64(missingKey))
	RatingsDropped.WithLabelValues("collapsed").Add(float64(collapsed))
}

// RecordWarehouseQuery records the duration and outcome of a warehouse operation.
func RecordWarehouseQuery(operation string, duration time.Duration, err error) {
	WarehouseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		WarehouseQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordTraining records how long a model took to build.
func RecordTraining(model string, duration time.Duration) {
	TrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordModelStoreLookup records a model store hit, miss or error.
func RecordModelStoreLookup(result string) {
	ModelStoreLookups.WithLabelValues(result).Inc()
}

// RecordRecommendation records one served recommendation list.
func RecordRecommendation(path string, duration time.Duration) {
	RecommendationsServed.WithLabelValues(path).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a ranked list cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendationCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	RecommendationCacheLookups.WithLabelValues("miss").Inc()
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
