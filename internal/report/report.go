// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package report renders insight reports for the terminal or as JSON.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/insights"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders r in format ("text" or "json").
//
//nolint:gocritic // Report passed by value is read-only
func Write(w io.Writer, format string, r insights.Report, color bool) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r, color)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes r as indented JSON.
//
//nolint:gocritic // Report passed by value is read-only
func WriteJSON(w io.Writer, r insights.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes r as headed plain-text sections.
//
//nolint:gocritic // Report passed by value is read-only
func WriteText(w io.Writer, r insights.Report, color bool) error {
	s := NewStyles(w, color)
	bw := bufio.NewWriter(w)

	section := func(title string) {
		fmt.Fprintf(bw, "\n%s\n", s.Heading.Render(title))
	}
	line := func(label, value string) {
		fmt.Fprintf(bw, "  %s  %s\n", s.Label.Render(label), s.Value.Render(value))
	}

	section("Average rating per user")
	width := 0
	for _, u := range r.AvgRatingPerUser {
		width = max(width, len(u.User))
	}
	for _, u := range r.AvgRatingPerUser {
		line(pad(u.User, width), fmt.Sprintf("%.2f (%d ratings)", u.Average, u.Count))
	}

	section("Rating distribution")
	for _, d := range r.RatingDistribution {
		line(pad(FormatRating(d.Rating), 4), strconv.Itoa(d.Count))
	}

	section(fmt.Sprintf("Top %d genres", insights.TopGenreCount))
	width = 0
	for _, g := range r.TopGenres {
		width = max(width, len(g.Genre))
	}
	for _, g := range r.TopGenres {
		line(pad(g.Genre, width), strconv.Itoa(g.Count))
	}

	section("Favorite genres (average rating)")
	width = 0
	for _, g := range r.FavoriteGenres {
		width = max(width, len(g.Genre))
	}
	for _, g := range r.FavoriteGenres {
		line(pad(g.Genre, width), fmt.Sprintf("%.2f", g.Average))
	}

	section("Watch history")
	for _, h := range r.WatchHistory {
		line(h.User+":", strings.Join(h.Movies, ", "))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteCleanStats writes a one-line summary of a cleaning pass.
//
//nolint:gocritic // CleanStats passed by value is read-only
func WriteCleanStats(w io.Writer, stats dataset.CleanStats) error {
	_, err := fmt.Fprintf(w,
		"Cleaned %d of %d rows (%d word ratings, %d numeric extracted, %d filled, %d unresolvable, %d missing keys, %d duplicates collapsed)\n",
		stats.RowsOut, stats.RowsIn, stats.WordsMapped, stats.NumericExtracted,
		stats.AbsentFilled, stats.UnresolvableDropped, stats.MissingKeyDropped, stats.DuplicatesCollapsed)
	return err
}

// FormatRating formats a rating without trailing zeros.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
