// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package recommend implements the hybrid movie recommender.
//
// # Architecture
//
// The engine blends two scoring axes over the movies a user has not rated:
//
//   - Collaborative: the rating predicted by a matrix factorization model
//   - Content: the mean TF-IDF cosine similarity between the candidate and
//     every movie the user rated
//
// The combined score is
//
//	score = w_collab * collaborative + w_content * content
//
// with default weights 0.7 and 0.3. Users with no rating history get the
// movies with the highest mean rating instead.
//
// # Design Principles
//
//   - Deterministic: ties keep dataset first-appearance order
//   - Pure: recommending never mutates the engine or its inputs
//   - Traceable: request IDs from the context are attached to log lines
//   - Observable: request counts and latency are exported as metrics
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), svd, space, ratings, logger)
//	if err != nil {
//	    return err
//	}
//
//	recs, err := engine.Recommend(ctx, "alice", 5)
package recommend
