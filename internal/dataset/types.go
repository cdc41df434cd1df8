// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import "errors"

// Rating scale bounds.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

var (
	// ErrMissingColumn is returned when an input file lacks a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrEmptyInput is returned when an input file has no header row.
	ErrEmptyInput = errors.New("input has no header row")
)

// RawRating is one row of the ratings file exactly as read.
type RawRating struct {
	User   string
	Movie  string
	Rating string
}

// Rating is a cleaned rating record. Value is always within [MinRating, MaxRating].
type Rating struct {
	User  string
	Movie string
	Value float64
}

// CatalogEntry is one row of the movie catalog.
type CatalogEntry struct {
	Title string
	Genre string

	// Extra holds the remaining columns, aligned with Catalog.ExtraColumns.
	Extra []string
}

// Catalog is a loaded movie catalog.
type Catalog struct {
	Entries      []CatalogEntry
	ExtraColumns []string
}

// MergedRow is a cleaned rating joined with its catalog entry.
// Genre is empty and Extra holds empty strings when the title is not in the catalog.
type MergedRow struct {
	Rating
	Genre string
	Extra []string
}
