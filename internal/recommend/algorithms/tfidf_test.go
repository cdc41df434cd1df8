// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/filmwise/internal/dataset"
)

func buildSpace(t *testing.T, docs []MovieDoc, cfg ContentConfig) *ContentSpace {
	t.Helper()
	cs, err := BuildContentSpace(context.Background(), docs, cfg)
	if err != nil {
		t.Fatalf("BuildContentSpace() error = %v", err)
	}
	return cs
}

func TestBuildContentSpace_SciFiAction(t *testing.T) {
	t.Parallel()

	cs := buildSpace(t, []MovieDoc{
		{Movie: "first", Text: "sci-fi action"},
		{Movie: "second", Text: "action"},
	}, DefaultContentConfig())

	if cs.Weight("first", "action") == 0 || cs.Weight("second", "action") == 0 {
		t.Error("action should be weighted in both documents")
	}
	if cs.Weight("first", "sci-fi") == 0 {
		t.Error("sci-fi should be weighted in the first document")
	}
	if cs.Weight("second", "sci-fi") != 0 {
		t.Error("sci-fi should not be weighted in the second document")
	}

	// idf(action) = 1, idf(sci-fi) = ln(3/2) + 1
	idfSciFi := math.Log(1.5) + 1
	norm := math.Sqrt(1 + idfSciFi*idfSciFi)
	if got, want := cs.Weight("first", "action"), 1/norm; math.Abs(got-want) > 1e-12 {
		t.Errorf("Weight(first, action) = %f, want %f", got, want)
	}
	if got := cs.Weight("second", "action"); math.Abs(got-1) > 1e-12 {
		t.Errorf("Weight(second, action) = %f, want 1", got)
	}
}

func TestContentSpace_Similarity(t *testing.T) {
	t.Parallel()

	cs := buildSpace(t, []MovieDoc{
		{Movie: "inception", Text: "Sci-Fi Thriller"},
		{Movie: "the matrix", Text: "Sci-Fi Action"},
		{Movie: "heat", Text: "Crime Thriller"},
		{Movie: "up", Text: "Animation"},
		{Movie: "unknown", Text: ""},
		{Movie: "inception", Text: "Drama"},
	}, DefaultContentConfig())

	if cs.Len() != 5 {
		t.Errorf("Len() = %d, want 5 (duplicate movie ignored)", cs.Len())
	}

	tests := []struct {
		name string
		a, b string
		cmp  func(float64) bool
	}{
		{"self", "inception", "inception", func(s float64) bool { return math.Abs(s-1) < 1e-9 }},
		{"shared genre", "inception", "the matrix", func(s float64) bool { return s > 0 && s < 1 }},
		{"disjoint", "inception", "up", func(s float64) bool { return s == 0 }},
		{"empty document", "unknown", "inception", func(s float64) bool { return s == 0 }},
		{"unknown movie", "nope", "inception", func(s float64) bool { return s == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := cs.Similarity(tt.a, tt.b)
			if !tt.cmp(s) {
				t.Errorf("Similarity(%q, %q) = %f", tt.a, tt.b, s)
			}
			if s != cs.Similarity(tt.b, tt.a) {
				t.Errorf("Similarity not symmetric for %q, %q", tt.a, tt.b)
			}
		})
	}
}

func TestContentSpace_SimilarityToSet(t *testing.T) {
	t.Parallel()

	cs := buildSpace(t, []MovieDoc{
		{Movie: "a", Text: "action"},
		{Movie: "b", Text: "action"},
		{Movie: "c", Text: "comedy"},
	}, DefaultContentConfig())

	if got := cs.SimilarityToSet("a", []string{"b", "c"}); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("SimilarityToSet(a, [b c]) = %f, want 0.5", got)
	}
	if got := cs.SimilarityToSet("a", nil); got != 0 {
		t.Errorf("SimilarityToSet(a, nil) = %f, want 0", got)
	}
}

func TestContentSpace_Tokenize(t *testing.T) {
	t.Parallel()

	cs := buildSpace(t, nil, ContentConfig{MinTokenLength: 2, StopWords: []string{" Film "}})

	tests := []struct {
		text string
		want []string
	}{
		{"Sci-Fi Action", []string{"sci-fi", "action"}},
		{"Action|Adventure,  Film", []string{"action", "adventure"}},
		{"the best of a film-noir", []string{"best", "film-noir"}},
		{"-- x -war- 3d", []string{"war", "3d"}},
		{"Comédie Ação", []string{"comédie", "ação"}},
		{"Drame|Aventure,Éco", []string{"drame", "aventure", "éco"}},
		{"é ü ab", []string{"ab"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := cs.tokenize(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestContentSpace_AccentedGenres(t *testing.T) {
	t.Parallel()

	cs := buildSpace(t, []MovieDoc{
		{Movie: "amelie", Text: "Comédie Romance"},
		{Movie: "cidade", Text: "Ação Crime"},
		{Movie: "com", Text: "com die"},
	}, DefaultContentConfig())

	if cs.Weight("amelie", "comédie") == 0 {
		t.Error("comédie should be weighted as a whole word")
	}
	if cs.Weight("amelie", "com") != 0 || cs.Weight("amelie", "die") != 0 {
		t.Error("accented word should not split into ASCII fragments")
	}
	if cs.Weight("cidade", "ação") == 0 {
		t.Error("ação should be weighted as a whole word")
	}
	if got := cs.Similarity("amelie", "com"); got != 0 {
		t.Errorf("Similarity(amelie, com) = %f, want 0", got)
	}
}

func TestBuildContentSpace_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildContentSpace(ctx, []MovieDoc{{Movie: "a", Text: "action"}}, DefaultContentConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMovieDocs(t *testing.T) {
	t.Parallel()

	rows := []dataset.MergedRow{
		{Rating: dataset.Rating{User: "a", Movie: "heat"}, Genre: "Crime"},
		{Rating: dataset.Rating{User: "a", Movie: "lost"}},
		{Rating: dataset.Rating{User: "b", Movie: "heat"}, Genre: "Crime"},
	}
	want := []MovieDoc{{Movie: "heat", Text: "Crime"}, {Movie: "lost", Text: ""}}
	if got := MovieDocs(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("MovieDocs() = %+v, want %+v", got, want)
	}
}
