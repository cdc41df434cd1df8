// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

/*
Package dataset loads, cleans and joins the movie rating data.

# Pipeline

	raw, _ := dataset.LoadRatings("data/raw/raw_data.csv", ',')
	cleaned := dataset.Clean(raw, dataset.CleanOptions{Aliases: aliases})
	catalog, _ := dataset.LoadCatalog("data/catalog/movies.csv", ',')
	merged := dataset.Merge(cleaned.Ratings, catalog, aliases)

# Cleaning Rules

Rating text is parsed by ParseRating: the words "One" through "Five"
(any case) map to 1..5, otherwise the first number in the text is used, so
"5x" and "2?" become 5 and 2. Text with no number, or a number outside
[1, 5], is Absent.

Titles are trimmed and lower-cased, then looked up in the alias table.
User IDs are trimmed.

Absent ratings take the mean of the Present ratings of the same movie. A
movie with no Present rating at all cannot be filled; such rows are
Unresolvable and dropped. Repeated ratings of the same movie by the same
user are averaged into one record.

Clean never fails on bad data. Every adjustment is counted in CleanStats.

# Merging

Merge left-joins cleaned ratings to the catalog on the normalized title.
The ratings drive the join: every rating produces exactly one merged row,
with an empty genre when the catalog has no entry for the title. When the
catalog holds the same normalized title twice, the first entry wins.
*/
package dataset
