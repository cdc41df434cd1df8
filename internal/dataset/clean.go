// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import (
	"sort"
	"strings"
)

// CleanOptions configures Clean.
type CleanOptions struct {
	// Aliases is applied to every normalized title. Nil means no aliases.
	Aliases Aliases
}

// CleanStats counts what Clean did to the raw rows.
type CleanStats struct {
	RowsIn              int `json:"rows_in"`
	WordsMapped         int `json:"words_mapped"`
	NumericExtracted    int `json:"numeric_extracted"`
	AbsentFilled        int `json:"absent_filled"`
	UnresolvableDropped int `json:"unresolvable_dropped"`
	MissingKeyDropped   int `json:"missing_key_dropped"`
	DuplicatesCollapsed int `json:"duplicates_collapsed"`
	RowsOut             int `json:"rows_out"`
}

// CleanResult is the output of Clean.
type CleanResult struct {
	// Ratings holds one record per (user, movie), sorted by user then movie.
	Ratings []Rating
	Stats   CleanStats
}

type pendingRating struct {
	user   string
	movie  string
	rating RatingValue
}

type ratingKey struct {
	user  string
	movie string
}

type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAccumulator) mean() float64 {
	return m.sum / float64(m.count)
}

// Clean turns raw rating rows into rating records.
//
// Rows are parsed and normalized first; Absent ratings are then filled with
// the mean Present rating of the same movie, and rows that cannot be filled
// are dropped. Ratings of the same movie by the same user are averaged.
// Rows whose user or title is blank after trimming are dropped as well.
//
//	raw := []RawRating{
//	    {User: "u1", Movie: "Inception", Rating: "Five"},
//	    {User: "u1", Movie: "inception ", Rating: "5x"},
//	}
//	Clean(raw, CleanOptions{}).Ratings // [{u1 inception 5}]
func Clean(raw []RawRating, opts CleanOptions) CleanResult {
	stats := CleanStats{RowsIn: len(raw)}

	pending := make([]pendingRating, 0, len(raw))
	for _, r := range raw {
		rating, source := parseRating(r.Rating)
		switch source {
		case parsedWord:
			stats.WordsMapped++
		case parsedNumber:
			stats.NumericExtracted++
		}

		user := strings.TrimSpace(r.User)
		movie := NormalizeTitle(r.Movie, opts.Aliases)
		if user == "" || movie == "" {
			stats.MissingKeyDropped++
			continue
		}
		pending = append(pending, pendingRating{user: user, movie: movie, rating: rating})
	}

	movieMeans := make(map[string]*meanAccumulator)
	for _, p := range pending {
		v, ok := p.rating.Value()
		if !ok {
			continue
		}
		acc, exists := movieMeans[p.movie]
		if !exists {
			acc = &meanAccumulator{}
			movieMeans[p.movie] = acc
		}
		acc.add(v)
	}

	for i := range pending {
		if pending[i].rating.State() != RatingAbsent {
			continue
		}
		if acc, ok := movieMeans[pending[i].movie]; ok {
			pending[i].rating = Present(acc.mean())
			stats.AbsentFilled++
		} else {
			pending[i].rating = Unresolvable()
		}
	}

	groups := make(map[ratingKey]*meanAccumulator)
	keys := make([]ratingKey, 0, len(pending))
	kept := 0
	for _, p := range pending {
		v, ok := p.rating.Value()
		if !ok {
			stats.UnresolvableDropped++
			continue
		}
		kept++
		key := ratingKey{user: p.user, movie: p.movie}
		acc, exists := groups[key]
		if !exists {
			acc = &meanAccumulator{}
			groups[key] = acc
			keys = append(keys, key)
		}
		acc.add(v)
	}

	// Grouping by (user, movie) also removes exact duplicates.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].user != keys[j].user {
			return keys[i].user < keys[j].user
		}
		return keys[i].movie < keys[j].movie
	})

	ratings := make([]Rating, len(keys))
	for i, key := range keys {
		ratings[i] = Rating{User: key.user, Movie: key.movie, Value: groups[key].mean()}
	}

	stats.DuplicatesCollapsed = kept - len(ratings)
	stats.RowsOut = len(ratings)

	return CleanResult{Ratings: ratings, Stats: stats}
}
