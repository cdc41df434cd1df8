// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package algorithms implements the models behind the hybrid recommender.
//
// # Models
//
// Collaborative Filtering:
//   - SVD: biased matrix factorization trained by stochastic gradient descent
//
// Content-Based Filtering:
//   - ContentSpace: TF-IDF vectors over each movie's genre text
//
// Baselines:
//   - Popularity: movies ranked by mean rating, used for cold-start users
//
// # Usage Example
//
//	train, test := algorithms.SplitTrainTest(ratings, 0.2, 42)
//
//	svd := algorithms.NewSVD(algorithms.DefaultSVDConfig())
//	if err := svd.Train(ctx, train); err != nil {
//	    return err
//	}
//	rmse, err := svd.RMSE(ctx, test)
//
//	space, err := algorithms.BuildContentSpace(ctx, algorithms.MovieDocs(rows), algorithms.DefaultContentConfig())
//	sim := space.Similarity("inception", "the matrix")
//
// # Determinism
//
// SVD initialization and the train/test split use generators seeded from
// configuration, so repeated runs over the same data produce the same model.
//
// # Thread Safety
//
// Training acquires an exclusive lock while prediction uses a shared lock.
package algorithms
