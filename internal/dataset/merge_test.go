// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import (
	"reflect"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		ExtraColumns: []string{"Year"},
		Entries: []CatalogEntry{
			{Title: "Inception", Genre: "Sci-Fi Thriller", Extra: []string{"2010"}},
			{Title: "The Matrix", Genre: "Sci-Fi Action", Extra: []string{"1999"}},
			{Title: " inception", Genre: "Drama", Extra: []string{"1900"}},
			{Title: "Heat", Genre: "Crime", Extra: []string{"1995"}},
		},
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	cleaned := []Rating{
		{User: "alice", Movie: "inception", Value: 5},
		{User: "alice", Movie: "unknown film", Value: 3},
		{User: "bob", Movie: "the matrix", Value: 4},
		{User: "carol", Movie: "unknown film", Value: 2},
	}

	result := Merge(cleaned, testCatalog(), DefaultAliases())

	if len(result.Rows) != len(cleaned) {
		t.Fatalf("len(Rows) = %d, want %d", len(result.Rows), len(cleaned))
	}

	first := result.Rows[0]
	if first.Genre != "Sci-Fi Thriller" || first.Extra[0] != "2010" {
		t.Errorf("duplicate catalog key should keep first entry, got %+v", first)
	}
	if result.Rows[2].Genre != "Sci-Fi Action" {
		t.Errorf("matrix genre = %q", result.Rows[2].Genre)
	}
	if result.Rows[1].Genre != "" || result.Rows[1].Extra[0] != "" {
		t.Errorf("unmatched row should have empty genre and metadata, got %+v", result.Rows[1])
	}
	if !reflect.DeepEqual(result.Unmatched, []string{"unknown film"}) {
		t.Errorf("Unmatched = %v, want [unknown film]", result.Unmatched)
	}
	if result.DuplicateCatalogKeys != 1 {
		t.Errorf("DuplicateCatalogKeys = %d, want 1", result.DuplicateCatalogKeys)
	}
	if !reflect.DeepEqual(result.MetadataColumns, []string{"Year"}) {
		t.Errorf("MetadataColumns = %v", result.MetadataColumns)
	}

	for i, row := range result.Rows {
		if row.Rating != cleaned[i] {
			t.Errorf("row %d rating = %+v, want %+v", i, row.Rating, cleaned[i])
		}
	}
}

func TestMerge_CatalogAliasNormalization(t *testing.T) {
	t.Parallel()

	catalog := Catalog{Entries: []CatalogEntry{{Title: "Matrix", Genre: "Action"}}}
	cleaned := []Rating{{User: "alice", Movie: "the matrix", Value: 4}}

	result := Merge(cleaned, catalog, DefaultAliases())
	if result.Rows[0].Genre != "Action" {
		t.Errorf("catalog title should be aliased like ratings, got %+v", result.Rows[0])
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	t.Parallel()

	result := Merge(nil, Catalog{}, nil)
	if len(result.Rows) != 0 || len(result.Unmatched) != 0 {
		t.Errorf("Merge(nil) = %+v, want empty", result)
	}

	cleaned := []Rating{{User: "a", Movie: "x", Value: 1}}
	result = Merge(cleaned, Catalog{}, nil)
	if len(result.Rows) != 1 || result.Rows[0].Genre != "" {
		t.Errorf("Merge with empty catalog = %+v", result.Rows)
	}
}

func TestRatings(t *testing.T) {
	t.Parallel()

	rows := []MergedRow{
		{Rating: Rating{User: "a", Movie: "x", Value: 1}, Genre: "g"},
		{Rating: Rating{User: "b", Movie: "y", Value: 2}},
	}
	want := []Rating{{User: "a", Movie: "x", Value: 1}, {User: "b", Movie: "y", Value: 2}}
	if got := Ratings(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Ratings() = %+v, want %+v", got, want)
	}
}
