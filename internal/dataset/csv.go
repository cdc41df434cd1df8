// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Accepted header names, matched case-insensitively.
var (
	userColumns   = []string{"user"}
	movieColumns  = []string{"movie", "title"}
	ratingColumns = []string{"rating"}
	genreColumns  = []string{"genre", "genres"}
)

// LoadRatings reads a delimiter-separated ratings file with a header row
// containing User, Movie and Rating columns.
func LoadRatings(path string, delimiter rune) ([]RawRating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	ratings, err := ReadRatings(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("read ratings file %s: %w", path, err)
	}
	return ratings, nil
}

// ReadRatings parses ratings from r. See LoadRatings.
func ReadRatings(r io.Reader, delimiter rune) ([]RawRating, error) {
	reader := newReader(r, delimiter)

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	userIdx, err := findColumn(header, userColumns)
	if err != nil {
		return nil, err
	}
	movieIdx, err := findColumn(header, movieColumns)
	if err != nil {
		return nil, err
	}
	ratingIdx, err := findColumn(header, ratingColumns)
	if err != nil {
		return nil, err
	}

	var ratings []RawRating
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse record: %w", err)
		}
		ratings = append(ratings, RawRating{
			User:   record[userIdx],
			Movie:  record[movieIdx],
			Rating: record[ratingIdx],
		})
	}
	return ratings, nil
}

// LoadCatalog reads a delimiter-separated movie catalog with a header row
// containing a Movie (or Title) column and a Genre (or Genres) column.
// Every other column is kept as metadata.
func LoadCatalog(path string, delimiter rune) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	catalog, err := ReadCatalog(f, delimiter)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	return catalog, nil
}

// ReadCatalog parses a catalog from r. See LoadCatalog.
func ReadCatalog(r io.Reader, delimiter rune) (Catalog, error) {
	reader := newReader(r, delimiter)

	header, err := readHeader(reader)
	if err != nil {
		return Catalog{}, err
	}

	titleIdx, err := findColumn(header, movieColumns)
	if err != nil {
		return Catalog{}, err
	}
	genreIdx, err := findColumn(header, genreColumns)
	if err != nil {
		return Catalog{}, err
	}

	var extraIdx []int
	var extraColumns []string
	for i, name := range header {
		if i == titleIdx || i == genreIdx {
			continue
		}
		extraIdx = append(extraIdx, i)
		extraColumns = append(extraColumns, strings.TrimSpace(name))
	}

	catalog := Catalog{ExtraColumns: extraColumns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Catalog{}, fmt.Errorf("parse record: %w", err)
		}

		extra := make([]string, len(extraIdx))
		for j, idx := range extraIdx {
			extra[j] = record[idx]
		}
		catalog.Entries = append(catalog.Entries, CatalogEntry{
			Title: record[titleIdx],
			Genre: record[genreIdx],
			Extra: extra,
		})
	}
	return catalog, nil
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = 0 // every record must match the header width
	return reader
}

func readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header, nil
}

func findColumn(header []string, names []string) (int, error) {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(names, " or "))
}
