// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package insights computes descriptive statistics over the merged ratings.
//
// Extract is a pure function: it returns structured aggregates and leaves
// rendering to the report package.
package insights

import (
	"sort"

	"github.com/tomtom215/filmwise/internal/dataset"
)

// TopGenreCount is the number of genres listed in Report.TopGenres.
const TopGenreCount = 5

// UserAverage is the mean rating given by one user.
type UserAverage struct {
	User    string  `json:"user"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// RatingCount is how often a rating value occurs.
type RatingCount struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// GenreCount is how many ratings carry a genre text.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreAverage is the mean rating of movies with a genre text.
type GenreAverage struct {
	Genre   string  `json:"genre"`
	Average float64 `json:"average"`
}

// UserHistory lists the movies one user rated.
type UserHistory struct {
	User   string   `json:"user"`
	Movies []string `json:"movies"`
}

// Report holds every aggregate.
type Report struct {
	// AvgRatingPerUser is sorted by user.
	AvgRatingPerUser []UserAverage `json:"avg_rating_per_user"`

	// RatingDistribution is sorted by count descending, then rating ascending.
	RatingDistribution []RatingCount `json:"rating_distribution"`

	// TopGenres holds the most frequent non-empty genre texts, ties broken
	// by first appearance.
	TopGenres []GenreCount `json:"top_genres"`

	// FavoriteGenres is sorted by mean rating descending, then genre.
	FavoriteGenres []GenreAverage `json:"favorite_genres"`

	// WatchHistory is sorted by user; movies keep dataset order.
	WatchHistory []UserHistory `json:"watch_history"`
}

// Extract computes the report for rows. Rows with an empty genre count
// toward the per-user and distribution aggregates but not the genre ones.
func Extract(rows []dataset.MergedRow) Report {
	type acc struct {
		sum   float64
		count int
	}

	users := make(map[string]*acc)
	history := make(map[string][]string)
	ratings := make(map[float64]int)
	genreOrder := make([]string, 0)
	genres := make(map[string]*acc)

	for _, row := range rows {
		u, ok := users[row.User]
		if !ok {
			u = &acc{}
			users[row.User] = u
		}
		u.sum += row.Value
		u.count++
		history[row.User] = append(history[row.User], row.Movie)

		ratings[row.Value]++

		if row.Genre == "" {
			continue
		}
		g, ok := genres[row.Genre]
		if !ok {
			g = &acc{}
			genres[row.Genre] = g
			genreOrder = append(genreOrder, row.Genre)
		}
		g.sum += row.Value
		g.count++
	}

	var r Report

	r.AvgRatingPerUser = make([]UserAverage, 0, len(users))
	r.WatchHistory = make([]UserHistory, 0, len(users))
	for user, a := range users {
		r.AvgRatingPerUser = append(r.AvgRatingPerUser, UserAverage{
			User:    user,
			Average: a.sum / float64(a.count),
			Count:   a.count,
		})
		r.WatchHistory = append(r.WatchHistory, UserHistory{User: user, Movies: history[user]})
	}
	sort.Slice(r.AvgRatingPerUser, func(i, j int) bool {
		return r.AvgRatingPerUser[i].User < r.AvgRatingPerUser[j].User
	})
	sort.Slice(r.WatchHistory, func(i, j int) bool {
		return r.WatchHistory[i].User < r.WatchHistory[j].User
	})

	r.RatingDistribution = make([]RatingCount, 0, len(ratings))
	for value, count := range ratings {
		r.RatingDistribution = append(r.RatingDistribution, RatingCount{Rating: value, Count: count})
	}
	sort.Slice(r.RatingDistribution, func(i, j int) bool {
		a, b := r.RatingDistribution[i], r.RatingDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Rating < b.Rating
	})

	r.TopGenres = make([]GenreCount, 0, len(genreOrder))
	r.FavoriteGenres = make([]GenreAverage, 0, len(genreOrder))
	for _, genre := range genreOrder {
		g := genres[genre]
		r.TopGenres = append(r.TopGenres, GenreCount{Genre: genre, Count: g.count})
		r.FavoriteGenres = append(r.FavoriteGenres, GenreAverage{Genre: genre, Average: g.sum / float64(g.count)})
	}
	sort.SliceStable(r.TopGenres, func(i, j int) bool {
		return r.TopGenres[i].Count > r.TopGenres[j].Count
	})
	if len(r.TopGenres) > TopGenreCount {
		r.TopGenres = r.TopGenres[:TopGenreCount]
	}
	sort.Slice(r.FavoriteGenres, func(i, j int) bool {
		a, b := r.FavoriteGenres[i], r.FavoriteGenres[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.Genre < b.Genre
	})

	return r
}
