// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package recommend

import "github.com/tomtom215/filmwise/internal/recommend/algorithms"

// Source identifies how a recommendation was produced.
type Source int

const (
	// SourceHybrid marks a personalized collaborative + content score.
	SourceHybrid Source = iota
	// SourcePopularity marks a fallback ranked by mean rating.
	SourcePopularity
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceHybrid:
		return "hybrid"
	case SourcePopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Recommendation is one ranked movie.
type Recommendation struct {
	// Movie is the normalized movie title.
	Movie string `json:"movie"`

	// Score is the combined score used for ranking. For popularity
	// recommendations it is the movie's mean rating.
	Score float64 `json:"score"`

	// Collaborative is the predicted rating (hybrid only).
	Collaborative float64 `json:"collaborative,omitempty"`

	// Content is the mean content similarity to the user's rated movies
	// (hybrid only).
	Content float64 `json:"content,omitempty"`

	// Source identifies the path that produced the recommendation.
	Source Source `json:"source"`
}

// Collaborative predicts ratings from the rating matrix.
type Collaborative interface {
	Name() string
	IsTrained() bool

	// Predict estimates the rating user would give movie. It must return a
	// value for any pair, including users and movies it has never seen.
	Predict(user, movie string) float64
}

// Content scores movies by descriptive similarity.
type Content interface {
	Name() string
	IsTrained() bool

	// Similarity returns the similarity of two movies in [0, 1].
	Similarity(a, b string) float64

	// SimilarityToSet returns the mean similarity of movie to set.
	SimilarityToSet(movie string, set []string) float64
}

// Ensure the models implement the interfaces.
var (
	_ Collaborative = (*algorithms.SVD)(nil)
	_ Content       = (*algorithms.ContentSpace)(nil)
)
