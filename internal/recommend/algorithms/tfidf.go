// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package algorithms

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/filmwise/internal/dataset"
)

// tokenPattern splits text on anything but Unicode letters, digits, '_'
// and '-'.
var tokenPattern = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// englishStopWords are removed before weighting.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above across after afterwards again against all almost alone
		along already also although always am among amongst an and another any
		anyhow anyone anything anyway anywhere are around as at be became because
		become becomes been before beforehand behind being below beside besides
		between beyond both but by can cannot could did do does done down due
		during each either else elsewhere enough etc even ever every everyone
		everything everywhere except few for former formerly from further had has
		have he hence her here hereafter hereby herein hers herself him himself
		his how however i ie if in indeed into is it its itself last latter
		least less ltd many may me meanwhile might more moreover most mostly much
		must my myself neither never nevertheless next no nobody none nor not
		nothing now nowhere of off often on once one only onto or other others
		otherwise our ours ourselves out over own per perhaps please rather re
		same seem seemed seeming seems several she should since so some somehow
		someone something sometime sometimes somewhere still such than that the
		their them themselves then thence there thereafter thereby therefore
		therein these they this those though through throughout thru thus to
		together too toward towards under until up upon us very via was we well
		were what whatever when whence whenever where whereafter whereas whereby
		wherein whereupon wherever whether which while whither who whoever whole
		whom whose why will with within without would yet you your yours yourself
		yourselves`) {
		englishStopWords[w] = struct{}{}
	}
}

// MovieDoc is the text describing one movie.
type MovieDoc struct {
	Movie string
	Text  string
}

// MovieDocs returns one document per distinct movie in rows, in
// first-appearance order. The text is the genre of the movie's first row,
// which is empty for movies missing from the catalog.
func MovieDocs(rows []dataset.MergedRow) []MovieDoc {
	seen := make(map[string]struct{}, len(rows))
	docs := make([]MovieDoc, 0)
	for _, row := range rows {
		if _, ok := seen[row.Movie]; ok {
			continue
		}
		seen[row.Movie] = struct{}{}
		docs = append(docs, MovieDoc{Movie: row.Movie, Text: row.Genre})
	}
	return docs
}

// ContentConfig contains configuration for the content model.
type ContentConfig struct {
	// MinTokenLength drops shorter tokens.
	MinTokenLength int

	// StopWords are removed in addition to the built-in English list.
	StopWords []string
}

// DefaultContentConfig returns the default content configuration.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{MinTokenLength: 2}
}

// sparseVector holds term weights sorted by term.
type sparseVector struct {
	terms   []string
	weights []float64
}

// ContentSpace is a TF-IDF vector space over movie documents.
//
// Weights use the raw term count and the smoothed inverse document
// frequency idf(t) = ln((1+n)/(1+df(t))) + 1. Every vector is L2-normalized,
// so the dot product of two vectors is their cosine similarity.
type ContentSpace struct {
	BaseAlgorithm

	cfg       ContentConfig
	stopWords map[string]struct{}
	index     map[string]int
	vectors   []sparseVector
	idf       map[string]float64
}

// BuildContentSpace builds the vector space for docs. Later documents for a
// movie already present are ignored.
func BuildContentSpace(ctx context.Context, docs []MovieDoc, cfg ContentConfig) (*ContentSpace, error) {
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = DefaultContentConfig().MinTokenLength
	}

	cs := &ContentSpace{
		BaseAlgorithm: NewBaseAlgorithm("tfidf"),
		cfg:           cfg,
		stopWords:     make(map[string]struct{}, len(englishStopWords)+len(cfg.StopWords)),
		index:         make(map[string]int, len(docs)),
		idf:           make(map[string]float64),
	}
	for w := range englishStopWords {
		cs.stopWords[w] = struct{}{}
	}
	for _, w := range cfg.StopWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			cs.stopWords[w] = struct{}{}
		}
	}

	cs.acquireTrainLock()
	defer cs.releaseTrainLock()

	counts := make([]map[string]int, 0, len(docs))
	docFreq := make(map[string]int)
	for _, doc := range docs {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, ok := cs.index[doc.Movie]; ok {
			continue
		}
		cs.index[doc.Movie] = len(counts)

		tf := make(map[string]int)
		for _, tok := range cs.tokenize(doc.Text) {
			tf[tok]++
		}
		for term := range tf {
			docFreq[term]++
		}
		counts = append(counts, tf)
	}

	n := float64(len(counts))
	for term, df := range docFreq {
		cs.idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}

	cs.vectors = make([]sparseVector, len(counts))
	for i, tf := range counts {
		cs.vectors[i] = cs.weigh(tf)
	}

	cs.markTrained()
	return cs, nil
}

func (cs *ContentSpace) tokenize(text string) []string {
	var tokens []string
	for _, raw := range tokenPattern.Split(strings.ToLower(text), -1) {
		tok := strings.Trim(raw, "-")
		if utf8.RuneCountInString(tok) < cs.cfg.MinTokenLength {
			continue
		}
		if _, stop := cs.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func (cs *ContentSpace) weigh(tf map[string]int) sparseVector {
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	weights := make([]float64, len(terms))
	var norm float64
	for i, term := range terms {
		w := float64(tf[term]) * cs.idf[term]
		weights[i] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range weights {
			weights[i] /= norm
		}
	}
	return sparseVector{terms: terms, weights: weights}
}

// Len returns the number of movies in the space.
func (cs *ContentSpace) Len() int {
	cs.acquirePredictLock()
	defer cs.releasePredictLock()
	return len(cs.vectors)
}

// Weight returns the normalized TF-IDF weight of term in movie's vector,
// or 0 when either is unknown.
func (cs *ContentSpace) Weight(movie, term string) float64 {
	cs.acquirePredictLock()
	defer cs.releasePredictLock()

	i, ok := cs.index[movie]
	if !ok {
		return 0
	}
	v := cs.vectors[i]
	j := sort.SearchStrings(v.terms, term)
	if j < len(v.terms) && v.terms[j] == term {
		return v.weights[j]
	}
	return 0
}

// Similarity returns the cosine similarity of two movies in [0, 1].
// Unknown movies and empty vectors score 0.
func (cs *ContentSpace) Similarity(a, b string) float64 {
	cs.acquirePredictLock()
	defer cs.releasePredictLock()
	return cs.similarity(a, b)
}

func (cs *ContentSpace) similarity(a, b string) float64 {
	i, ok := cs.index[a]
	if !ok {
		return 0
	}
	j, ok := cs.index[b]
	if !ok {
		return 0
	}
	return clamp(dotSparse(cs.vectors[i], cs.vectors[j]), 0, 1)
}

// SimilarityToSet returns the mean similarity of movie to each movie in set.
// An empty set scores 0.
func (cs *ContentSpace) SimilarityToSet(movie string, set []string) float64 {
	if len(set) == 0 {
		return 0
	}

	cs.acquirePredictLock()
	defer cs.releasePredictLock()

	var sum float64
	for _, other := range set {
		sum += cs.similarity(movie, other)
	}
	return sum / float64(len(set))
}

// dotSparse merges two term-sorted vectors.
func dotSparse(a, b sparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return dot
}
