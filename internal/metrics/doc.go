// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

/*
Package metrics provides Prometheus instrumentation for the Filmwise pipeline.

Collectors are registered on the default registry with promauto. Filmwise is
a one-shot interactive program with no HTTP listener, so metrics are not
scraped; when metrics.textfile_path is set, main writes the registry to that
file on exit with WriteTextfile, in the format read by the node_exporter
textfile collector.

# Available Metrics

Dataset:
  - filmwise_rows_loaded_total{source}: rows read from ratings and catalog files
  - filmwise_ratings_cleaned_total: rating records produced by the cleaner
  - filmwise_ratings_dropped_total{reason}: rows removed (unresolvable, missing_key, collapsed)
  - filmwise_catalog_unmatched_total: distinct rated titles missing from the catalog

Warehouse:
  - filmwise_warehouse_query_duration_seconds{operation}
  - filmwise_warehouse_query_errors_total{operation}

Models:
  - filmwise_training_duration_seconds{model}: svd and tfidf build time
  - filmwise_model_rmse: held-out RMSE of the collaborative model
  - filmwise_model_store_lookups_total{result}: hit, miss, error

Recommendations:
  - filmwise_recommendations_total{path}: hybrid or popularity
  - filmwise_recommendation_duration_seconds
*/
package metrics
