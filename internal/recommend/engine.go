// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmwise/internal/cache"
	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend/algorithms"
)

// Engine blends a collaborative model and a content model into ranked
// recommendations. Users without rating history get the popularity ranking.
//
// The engine never mutates its inputs and holds no request state, so it is
// safe for concurrent use once constructed.
type Engine struct {
	config *Config
	logger zerolog.Logger

	collaborative Collaborative
	content       Content
	popularity    *algorithms.Popularity

	// movies lists every distinct movie in first-appearance order.
	movies []string

	// history maps a user to the movies they rated, in dataset order.
	history map[string][]string

	// cache memoizes ranked lists by user and count. Nil when disabled.
	cache *cache.LRU[[]Recommendation]
}

// NewEngine creates a recommendation engine over ratings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, collaborative Collaborative, content Content, ratings []dataset.Rating, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if collaborative == nil {
		return nil, errors.New("collaborative model is required")
	}
	if content == nil {
		return nil, errors.New("content model is required")
	}

	e := &Engine{
		config:        cfg.Clone(),
		logger:        logger.With().Str("component", "recommend").Logger(),
		collaborative: collaborative,
		content:       content,
		popularity:    algorithms.NewPopularity(ratings),
		history:       make(map[string][]string),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[[]Recommendation](cfg.Cache.MaxEntries)
	}

	seenMovie := make(map[string]struct{})
	seenPair := make(map[[2]string]struct{}, len(ratings))
	for _, r := range ratings {
		if _, ok := seenMovie[r.Movie]; !ok {
			seenMovie[r.Movie] = struct{}{}
			e.movies = append(e.movies, r.Movie)
		}
		key := [2]string{r.User, r.Movie}
		if _, ok := seenPair[key]; ok {
			continue
		}
		seenPair[key] = struct{}{}
		e.history[r.User] = append(e.history[r.User], r.Movie)
	}

	e.logger.Info().
		Str("collaborative", collaborative.Name()).
		Str("content", content.Name()).
		Int("users", len(e.history)).
		Int("movies", len(e.movies)).
		Msg("Recommendation engine ready")

	return e, nil
}

// Combine returns the weighted blend of a collaborative and a content score.
func (e *Engine) Combine(collaborative, content float64) float64 {
	return Combine(e.config.Weights, collaborative, content)
}

// Combine returns w.Collaborative*collaborative + w.Content*content.
//
//nolint:gocritic // Weights is small and passed by value
func Combine(w Weights, collaborative, content float64) float64 {
	return w.Collaborative*collaborative + w.Content*content
}

// HasHistory reports whether user has rated any movie.
func (e *Engine) HasHistory(user string) bool {
	return len(e.history[strings.TrimSpace(user)]) > 0
}

// Recommend returns up to n recommendations for user. A non-positive n
// uses the configured default.
//
// Users with rating history get unseen movies ranked by the hybrid score;
// everyone else gets the most popular movies.
func (e *Engine) Recommend(ctx context.Context, user string, n int) ([]Recommendation, error) {
	start := time.Now()

	user = strings.TrimSpace(user)
	n = e.limit(n)

	logger := e.logger.With().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("user", user).
		Int("n", n).
		Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rated := e.history[user]
	path := metrics.PathHybrid
	if len(rated) == 0 {
		path = metrics.PathPopularity
	}

	key := cacheKey(user, n)
	if e.cache != nil {
		cached, ok := e.cache.Get(key)
		metrics.RecordCacheLookup(ok)
		if ok {
			metrics.RecordRecommendation(path, time.Since(start))
			logger.Debug().Int("returned", len(cached)).Msg("Recommendation served from cache")
			return append([]Recommendation(nil), cached...), nil
		}
	}

	if len(rated) == 0 {
		recs := e.popular(n)
		e.store(key, recs)
		metrics.RecordRecommendation(path, time.Since(start))
		logger.Debug().Int("returned", len(recs)).Msg("No rating history, using popularity fallback")
		return recs, nil
	}

	recs, err := e.hybrid(ctx, user, rated, n)
	if err != nil {
		return nil, err
	}
	e.store(key, recs)

	metrics.RecordRecommendation(path, time.Since(start))
	logger.Debug().
		Int("rated", len(rated)).
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("Recommendation complete")
	return recs, nil
}

func (e *Engine) store(key string, recs []Recommendation) {
	if e.cache != nil {
		e.cache.Add(key, append([]Recommendation(nil), recs...))
	}
}

func cacheKey(user string, n int) string {
	return user + "\x00" + strconv.Itoa(n)
}

func (e *Engine) limit(n int) int {
	if n <= 0 {
		return e.config.Limits.DefaultN
	}
	if n > e.config.Limits.MaxN {
		return e.config.Limits.MaxN
	}
	return n
}

func (e *Engine) popular(n int) []Recommendation {
	top := e.popularity.TopN(n)
	recs := make([]Recommendation, len(top))
	for i, m := range top {
		recs[i] = Recommendation{Movie: m.Movie, Score: m.Score, Source: SourcePopularity}
	}
	return recs
}

// hybrid scores every movie the user has not rated.
func (e *Engine) hybrid(ctx context.Context, user string, rated []string, n int) ([]Recommendation, error) {
	seen := make(map[string]struct{}, len(rated))
	for _, m := range rated {
		seen[m] = struct{}{}
	}

	recs := make([]Recommendation, 0, len(e.movies)-len(seen))
	for i, movie := range e.movies {
		if _, ok := seen[movie]; ok {
			continue
		}
		if i%256 == 0 && algorithms.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		collab := e.collaborative.Predict(user, movie)
		content := e.content.SimilarityToSet(movie, rated)
		recs = append(recs, Recommendation{
			Movie:         movie,
			Score:         e.Combine(collab, content),
			Collaborative: collab,
			Content:       content,
			Source:        SourceHybrid,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}
