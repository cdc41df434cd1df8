// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package storage provides model persistence for recommendation algorithms.
//
// Trained models are kept in BadgerDB so a run over an unchanged dataset can
// skip training. Each model is keyed by its name and a fingerprint of the
// training ratings and configuration, so a changed dataset never reuses a
// stale model.
//
// # Storage Format
//
//	model:{name}:{fingerprint}  gzip-compressed gob-encoded model state
//	meta:{name}:{fingerprint}   JSON-encoded ModelMetadata
//
// # Usage Example
//
//	store, err := storage.Open("data/models")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	fp := storage.Fingerprint(train, svdCfg)
//	svd, meta, err := store.LoadSVD(ctx, fp)
//	if errors.Is(err, storage.ErrModelNotFound) {
//	    svd = algorithms.NewSVD(svdCfg)
//	    if err := svd.Train(ctx, train); err != nil {
//	        return err
//	    }
//	    err = store.SaveSVD(ctx, fp, svd, storage.ModelMetadata{RatingCount: len(train)})
//	}
//
// # Data Integrity
//
// Models are validated on load using SHA-256 checksums:
//
//  1. Decompress gzip data
//  2. Compute SHA-256 of decompressed data
//  3. Compare with stored checksum
//  4. Return error if mismatch
//
// An empty path opens an in-memory store, which tests use.
package storage
