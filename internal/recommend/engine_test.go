// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package recommend

import (
	"bytes"
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
	"github.com/tomtom215/filmwise/internal/recommend/algorithms"
)

// mockCollaborative returns fixed predictions per movie.
type mockCollaborative struct {
	scores map[string]float64
	calls  []string
}

func (m *mockCollaborative) Name() string    { return "mock_collab" }
func (m *mockCollaborative) IsTrained() bool { return true }
func (m *mockCollaborative) Predict(user, movie string) float64 {
	m.calls = append(m.calls, movie)
	if s, ok := m.scores[movie]; ok {
		return s
	}
	return 3
}

// mockContent returns fixed similarity to any set per movie.
type mockContent struct {
	scores map[string]float64
}

func (m *mockContent) Name() string                   { return "mock_content" }
func (m *mockContent) IsTrained() bool                { return true }
func (m *mockContent) Similarity(a, b string) float64 { return m.scores[a] }
func (m *mockContent) SimilarityToSet(movie string, set []string) float64 {
	if len(set) == 0 {
		return 0
	}
	return m.scores[movie]
}

func engineRatings() []dataset.Rating {
	return []dataset.Rating{
		{User: "alice", Movie: "inception", Value: 5},
		{User: "alice", Movie: "heat", Value: 3},
		{User: "bob", Movie: "the matrix", Value: 4},
		{User: "bob", Movie: "up", Value: 2},
		{User: "carol", Movie: "alien", Value: 4},
		{User: "carol", Movie: "jaws", Value: 5},
		{User: "carol", Movie: "heat", Value: 5},
	}
}

func newTestEngine(t *testing.T, collab Collaborative, content Content) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), collab, content, engineRatings(), logging.NewTestLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	logger := logging.NewTestLogger(&bytes.Buffer{})
	collab := &mockCollaborative{}
	content := &mockContent{}

	tests := []struct {
		name    string
		cfg     *Config
		collab  Collaborative
		content Content
		wantErr bool
	}{
		{"nil config uses defaults", nil, collab, content, false},
		{"invalid config", &Config{}, collab, content, true},
		{"missing collaborative", DefaultConfig(), nil, content, true},
		{"missing content", DefaultConfig(), collab, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.cfg, tt.collab, tt.content, engineRatings(), logger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && e == nil {
				t.Error("NewEngine() returned nil engine")
			}
		})
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()

	if got := Combine(DefaultConfig().Weights, 4.0, 0.5); math.Abs(got-2.95) > 1e-9 {
		t.Errorf("Combine(4.0, 0.5) = %f, want 2.95", got)
	}
	if got := Combine(Weights{Collaborative: 1}, 4.0, 0.5); got != 4.0 {
		t.Errorf("collaborative-only Combine = %f, want 4", got)
	}
}

func TestEngine_RecommendHybrid(t *testing.T) {
	collab := &mockCollaborative{scores: map[string]float64{
		"the matrix": 4.0,
		"up":         2.0,
		"alien":      4.0,
		"jaws":       3.0,
	}}
	content := &mockContent{scores: map[string]float64{
		"the matrix": 0.5,
		"up":         0.9,
		"alien":      0.5,
		"jaws":       1.0,
	}}
	e := newTestEngine(t, collab, content)

	recs, err := e.Recommend(context.Background(), "alice", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// matrix and alien tie at 2.95; matrix appears first in the dataset.
	wantMovies := []string{"the matrix", "alien", "jaws"}
	var gotMovies []string
	for _, r := range recs {
		gotMovies = append(gotMovies, r.Movie)
		if r.Source != SourceHybrid {
			t.Errorf("%s source = %v, want hybrid", r.Movie, r.Source)
		}
		if r.Movie == "inception" || r.Movie == "heat" {
			t.Errorf("recommended already rated movie %s", r.Movie)
		}
	}
	if !reflect.DeepEqual(gotMovies, wantMovies) {
		t.Errorf("Recommend() movies = %v, want %v", gotMovies, wantMovies)
	}
	if math.Abs(recs[0].Score-2.95) > 1e-9 || recs[0].Collaborative != 4.0 || recs[0].Content != 0.5 {
		t.Errorf("first recommendation = %+v", recs[0])
	}

	// Only unseen movies are scored.
	for _, m := range collab.calls {
		if m == "inception" || m == "heat" {
			t.Errorf("Predict called for rated movie %s", m)
		}
	}
}

func TestEngine_RecommendPopularityFallback(t *testing.T) {
	e := newTestEngine(t, &mockCollaborative{}, &mockContent{})
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.RecommendationsServed.WithLabelValues(metrics.PathPopularity))

	first, err := e.Recommend(ctx, "stranger", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(ctx, "stranger", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(first) != 3 {
		t.Fatalf("len = %d, want 3", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("popularity fallback should be stable across calls")
	}

	// Means: inception 5, heat 4, matrix 4, up 2, alien 4, jaws 5.
	want := []Recommendation{
		{Movie: "inception", Score: 5, Source: SourcePopularity},
		{Movie: "jaws", Score: 5, Source: SourcePopularity},
		{Movie: "heat", Score: 4, Source: SourcePopularity},
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Recommend() = %+v, want %+v", first, want)
	}

	if got := testutil.ToFloat64(metrics.RecommendationsServed.WithLabelValues(metrics.PathPopularity)) - before; got < 2 {
		t.Errorf("popularity recommendations counter delta = %f, want >= 2", got)
	}
}

func TestEngine_RecommendLimits(t *testing.T) {
	e := newTestEngine(t, &mockCollaborative{}, &mockContent{})
	ctx := context.Background()

	tests := []struct {
		name string
		user string
		n    int
		want int
	}{
		{"default n for unknown user", "nobody", 0, 5},
		{"negative n", "nobody", -3, 5},
		{"explicit n", "nobody", 2, 2},
		{"more than catalog", "nobody", 100, 6},
		{"known user capped by unseen movies", "carol", 10, 3},
		{"whitespace around user id", "  alice ", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := e.Recommend(ctx, tt.user, tt.n)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(recs) != tt.want {
				t.Errorf("len = %d, want %d", len(recs), tt.want)
			}
		})
	}
}

func TestEngine_RecommendCache(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		wantCalls int
	}{
		{"cached", true, 1},
		{"uncached", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Cache.Enabled = tt.enabled
			counter := &countingCollaborative{}
			e, err := NewEngine(cfg, counter, &mockContent{}, engineRatings(), logging.NewTestLogger(&bytes.Buffer{}))
			if err != nil {
				t.Fatal(err)
			}

			first, err := e.Recommend(context.Background(), "alice", 2)
			if err != nil {
				t.Fatal(err)
			}
			first[0].Movie = "mutated"

			second, err := e.Recommend(context.Background(), "alice", 2)
			if err != nil {
				t.Fatal(err)
			}
			if second[0].Movie == "mutated" {
				t.Error("caller mutation leaked into later results")
			}
			if counter.lists != tt.wantCalls {
				t.Errorf("hybrid scoring ran %d times, want %d", counter.lists, tt.wantCalls)
			}
		})
	}
}

// countingCollaborative counts how many ranked lists were scored for alice,
// who has exactly four unseen movies.
type countingCollaborative struct {
	predictions int
	lists       int
}

func (c *countingCollaborative) Name() string    { return "counting" }
func (c *countingCollaborative) IsTrained() bool { return true }
func (c *countingCollaborative) Predict(user, movie string) float64 {
	c.predictions++
	if c.predictions%4 == 0 {
		c.lists++
	}
	return 3
}

func TestEngine_RecommendCancelled(t *testing.T) {
	e := newTestEngine(t, &mockCollaborative{}, &mockContent{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, "alice", 5); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestEngine_DoesNotMutateInputs(t *testing.T) {
	ratings := engineRatings()
	original := append([]dataset.Rating(nil), ratings...)

	e, err := NewEngine(nil, &mockCollaborative{}, &mockContent{}, ratings, logging.NewTestLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	for _, user := range []string{"alice", "bob", "nobody"} {
		if _, err := e.Recommend(context.Background(), user, 5); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(ratings, original) {
		t.Error("engine modified its input ratings")
	}
	if !e.HasHistory("bob") || e.HasHistory("nobody") {
		t.Error("HasHistory() mismatch")
	}
}

func TestEngine_WithRealModels(t *testing.T) {
	ctx := context.Background()
	ratings := engineRatings()

	svdCfg := algorithms.DefaultSVDConfig()
	svdCfg.Factors = 4
	svd := algorithms.NewSVD(svdCfg)
	if err := svd.Train(ctx, ratings); err != nil {
		t.Fatal(err)
	}

	space, err := algorithms.BuildContentSpace(ctx, []algorithms.MovieDoc{
		{Movie: "inception", Text: "Sci-Fi Thriller"},
		{Movie: "heat", Text: "Crime Thriller"},
		{Movie: "the matrix", Text: "Sci-Fi Action"},
		{Movie: "up", Text: "Animation"},
		{Movie: "alien", Text: "Sci-Fi Horror"},
		{Movie: "jaws", Text: "Thriller"},
	}, algorithms.DefaultContentConfig())
	if err != nil {
		t.Fatal(err)
	}

	e, err := NewEngine(DefaultConfig(), svd, space, ratings, logging.NewTestLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}

	recs, err := e.Recommend(ctx, "alice", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("len = %d, want 4 unseen movies", len(recs))
	}
	for i, r := range recs {
		if i > 0 && r.Score > recs[i-1].Score {
			t.Errorf("recommendations not sorted: %v", recs)
		}
		if want := e.Combine(r.Collaborative, r.Content); r.Score != want {
			t.Errorf("%s score = %f, want %f", r.Movie, r.Score, want)
		}
		if r.Content < 0 || r.Content > 1 {
			t.Errorf("%s content = %f outside [0,1]", r.Movie, r.Content)
		}
	}
}
