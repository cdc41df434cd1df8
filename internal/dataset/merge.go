// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

// MergeResult is the output of Merge.
type MergeResult struct {
	// Rows holds one row per cleaned rating, in the same order.
	Rows []MergedRow

	// MetadataColumns names the catalog columns carried in MergedRow.Extra.
	MetadataColumns []string

	// Unmatched lists distinct titles with no catalog entry, in order of first appearance.
	Unmatched []string

	// DuplicateCatalogKeys counts catalog entries shadowed by an earlier entry with the same normalized title.
	DuplicateCatalogKeys int
}

// Merge left-joins cleaned ratings to the catalog on normalized title.
// Catalog titles are normalized with the same aliases the cleaner used.
// len(result.Rows) == len(cleaned) always holds.
func Merge(cleaned []Rating, catalog Catalog, aliases Aliases) MergeResult {
	index := make(map[string]CatalogEntry, len(catalog.Entries))
	duplicates := 0
	for _, entry := range catalog.Entries {
		key := NormalizeTitle(entry.Title, aliases)
		if _, exists := index[key]; exists {
			duplicates++
			continue
		}
		index[key] = entry
	}

	width := len(catalog.ExtraColumns)
	rows := make([]MergedRow, len(cleaned))
	seenUnmatched := make(map[string]bool)
	var unmatched []string

	for i, r := range cleaned {
		row := MergedRow{Rating: r, Extra: make([]string, width)}
		if entry, ok := index[r.Movie]; ok {
			row.Genre = entry.Genre
			copy(row.Extra, entry.Extra)
		} else if !seenUnmatched[r.Movie] {
			seenUnmatched[r.Movie] = true
			unmatched = append(unmatched, r.Movie)
		}
		rows[i] = row
	}

	columns := make([]string, width)
	copy(columns, catalog.ExtraColumns)

	return MergeResult{
		Rows:                 rows,
		MetadataColumns:      columns,
		Unmatched:            unmatched,
		DuplicateCatalogKeys: duplicates,
	}
}

// Ratings returns the rating records of rows.
func Ratings(rows []MergedRow) []Rating {
	out := make([]Rating, len(rows))
	for i, row := range rows {
		out[i] = row.Rating
	}
	return out
}
