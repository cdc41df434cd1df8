// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package dataset

import (
	"sort"
	"strings"
)

// Aliases maps normalized titles to canonical normalized titles.
// Build it with NewAliases so that every target is final.
type Aliases map[string]string

// builtinAliases is always applied. Configured aliases extend it.
var builtinAliases = map[string]string{"matrix": "the matrix"}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() Aliases {
	return NewAliases(builtinAliases)
}

// WithBuiltinAliases returns configured laid over the built-in alias table.
// Keys are normalized, so a configured "Matrix" replaces the built-in
// "matrix" entry. configured is not modified.
func WithBuiltinAliases(configured map[string]string) map[string]string {
	out := make(map[string]string, len(builtinAliases)+len(configured))
	for k, v := range builtinAliases {
		out[normalizeKey(k)] = v
	}
	for k, v := range configured {
		out[normalizeKey(k)] = v
	}
	return out
}

// NewAliases normalizes keys and values of raw and resolves chains, so
// "a" -> "b" and "b" -> "c" become "a" -> "c" and "b" -> "c". Entries that
// form a cycle are dropped.
func NewAliases(raw map[string]string) Aliases {
	norm := make(map[string]string, len(raw))
	for k, v := range raw {
		k, v = normalizeKey(k), normalizeKey(v)
		if k == "" || v == "" || k == v {
			continue
		}
		norm[k] = v
	}

	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	aliases := make(Aliases, len(norm))
	for _, k := range keys {
		seen := map[string]bool{k: true}
		target := norm[k]
		for {
			next, ok := norm[target]
			if !ok {
				break
			}
			if seen[target] {
				target = ""
				break
			}
			seen[target] = true
			target = next
		}
		if target != "" {
			aliases[k] = target
		}
	}
	return aliases
}

// NormalizeTitle trims and lower-cases title, then applies the alias table.
// NormalizeTitle(NormalizeTitle(t, a), a) == NormalizeTitle(t, a).
func NormalizeTitle(title string, aliases Aliases) string {
	key := normalizeKey(title)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
