// Package usecase provides the business logic for the flight reconciliation
// engine: time-adjacency clustering, segment matching, segment suggestion,
// and the orchestration that applies clusters to a trip idempotently.
package usecase

import (
	"regexp"
	"strings"
)

// Location strings arrive in many shapes: "San Francisco, CA, US" from the
// extraction, "San Francisco" on a hand-made segment, sometimes just an
// airport code. normalization strips the noise before comparison.
var (
	countrySuffixPattern = regexp.MustCompile(`(?i),\s*(usa?|united states|jp|japan|uk|united kingdom|fr|france|de|germany|it|italy|es|spain)\b`)
	parenthesesPattern   = regexp.MustCompile(`\s*\([^)]*\)`)
)

// normalizeLocation lowercases a location string and removes country
// suffixes and parenthesized qualifiers.
func normalizeLocation(location string) string {
	s := strings.ToLower(location)
	s = countrySuffixPattern.ReplaceAllString(s, "")
	s = parenthesesPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cityToken extracts the leading city name from a normalized location
// ("san francisco, ca" -> "san francisco").
func cityToken(normalized string) string {
	return strings.TrimSpace(strings.SplitN(normalized, ",", 2)[0])
}

// TextSimilarity returns a normalized string-similarity measure in [0, 1]
// for two location strings.
//
// Guarantees:
//   - identical strings score 1.0
//   - a contains relationship scores 1.0 ("San Francisco" vs
//     "San Francisco, CA")
//   - matching is case-insensitive and ignores country suffixes
//   - disjoint strings score near 0, degrading smoothly in between via
//     token overlap and normalized edit distance
func TextSimilarity(a, b string) float64 {
	na := normalizeLocation(a)
	nb := normalizeLocation(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1
	}
	// Same leading city with different qualifiers is a near-certain match.
	if cityToken(na) == cityToken(nb) {
		return 0.9
	}

	overlap := tokenOverlap(na, nb)
	edit := editSimilarity(na, nb)
	if overlap > edit {
		return overlap
	}
	return edit
}

// tokenOverlap computes the Jaccard overlap of whitespace/comma tokens.
func tokenOverlap(a, b string) float64 {
	tokensA := splitTokens(a)
	tokensB := splitTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}

	shared := 0
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		if _, seen := setB[t]; seen {
			continue
		}
		setB[t] = struct{}{}
		if _, ok := setA[t]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// splitTokens splits a normalized location into comparable words.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '/'
	})
}

// editSimilarity converts Levenshtein distance into a [0, 1] similarity.
func editSimilarity(a, b string) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longer)
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
