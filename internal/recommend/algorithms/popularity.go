// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package algorithms

import (
	"sort"

	"github.com/tomtom215/filmwise/internal/dataset"
)

// PopularMovie is a movie with its popularity score.
type PopularMovie struct {
	Movie string
	Score float64
}

// Popularity ranks movies by their mean rating. It is the fallback for users
// with no rating history.
//
// Ties keep the order in which movies first appear in the ratings, so the
// ranking is the same on every call.
type Popularity struct {
	BaseAlgorithm

	ranked []PopularMovie
}

// NewPopularity computes the popularity ranking from ratings.
func NewPopularity(ratings []dataset.Rating) *Popularity {
	p := &Popularity{BaseAlgorithm: NewBaseAlgorithm("popularity")}

	p.acquireTrainLock()
	defer p.releaseTrainLock()

	type acc struct {
		sum   float64
		count int
	}
	order := make([]string, 0)
	stats := make(map[string]*acc)
	for _, r := range ratings {
		a, ok := stats[r.Movie]
		if !ok {
			a = &acc{}
			stats[r.Movie] = a
			order = append(order, r.Movie)
		}
		a.sum += r.Value
		a.count++
	}

	p.ranked = make([]PopularMovie, len(order))
	for i, movie := range order {
		a := stats[movie]
		p.ranked[i] = PopularMovie{Movie: movie, Score: a.sum / float64(a.count)}
	}
	sort.SliceStable(p.ranked, func(i, j int) bool {
		return p.ranked[i].Score > p.ranked[j].Score
	})

	p.markTrained()
	return p
}

// TopN returns up to n of the highest rated movies.
func (p *Popularity) TopN(n int) []PopularMovie {
	p.acquirePredictLock()
	defer p.releasePredictLock()

	if n <= 0 || len(p.ranked) == 0 {
		return nil
	}
	if n > len(p.ranked) {
		n = len(p.ranked)
	}

	result := make([]PopularMovie, n)
	copy(result, p.ranked[:n])
	return result
}
