// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import (
	"regexp"
	"strconv"
	"strings"
)

// RatingState distinguishes the three states a rating can be in during cleaning.
type RatingState uint8

const (
	// RatingAbsent means no usable value was found; it may be filled later.
	RatingAbsent RatingState = iota

	// RatingPresent means the value is a valid rating.
	RatingPresent

	// RatingUnresolvable means filling was attempted and no value was available.
	RatingUnresolvable
)

// String returns the state name.
func (s RatingState) String() string {
	switch s {
	case RatingPresent:
		return "present"
	case RatingUnresolvable:
		return "unresolvable"
	default:
		return "absent"
	}
}

// RatingValue is a rating that may be missing.
type RatingValue struct {
	state RatingState
	value float64
}

// Present returns a RatingValue holding v.
func Present(v float64) RatingValue {
	return RatingValue{state: RatingPresent, value: v}
}

// Absent returns a RatingValue with no value.
func Absent() RatingValue {
	return RatingValue{state: RatingAbsent}
}

// Unresolvable returns a RatingValue that could not be filled.
func Unresolvable() RatingValue {
	return RatingValue{state: RatingUnresolvable}
}

// State returns the rating state.
func (r RatingValue) State() RatingState {
	return r.state
}

// Value returns the rating and whether it is present.
func (r RatingValue) Value() (float64, bool) {
	return r.value, r.state == RatingPresent
}

// ratingWords maps spelled-out ratings (lower-cased) to numbers.
var ratingWords = map[string]float64{
	"five":  5,
	"four":  4,
	"three": 3,
	"two":   2,
	"one":   1,
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// parseSource records how a rating text was interpreted.
type parseSource uint8

const (
	parsedNone parseSource = iota
	parsedWord
	parsedNumber
)

// ParseRating converts rating text into a RatingValue.
//
//	ParseRating("Five")  // Present(5)
//	ParseRating("4.5")   // Present(4.5)
//	ParseRating("5x")    // Present(5)
//	ParseRating("great") // Absent
//	ParseRating("10")    // Absent, outside [1, 5]
func ParseRating(text string) RatingValue {
	v, _ := parseRating(text)
	return v
}

func parseRating(text string) (RatingValue, parseSource) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Absent(), parsedNone
	}

	if v, ok := ratingWords[strings.ToLower(trimmed)]; ok {
		return Present(v), parsedWord
	}

	match := numberPattern.FindString(trimmed)
	if match == "" {
		return Absent(), parsedNone
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || v < MinRating || v > MaxRating {
		return Absent(), parsedNone
	}
	return Present(v), parsedNumber
}
