// Package lexical provides surface-level text scoring used alongside
// vector similarity. It deliberately stays simple: lowercase whitespace
// tokenization and set arithmetic, no stemming or stop-word handling.
package lexical

import "strings"

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// WordSet returns the set of distinct lowercase tokens in text.
func WordSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// Overlap scores how much of target's vocabulary appears in candidate.
// It is |candidate ∩ target| / |target|, capped at 1.0. A target with no
// words scores 0.0.
func Overlap(candidate, target string) float64 {
	targetSet := WordSet(target)
	if len(targetSet) == 0 {
		return 0.0
	}

	overlap := 0
	for word := range WordSet(candidate) {
		if _, ok := targetSet[word]; ok {
			overlap++
		}
	}

	score := float64(overlap) / float64(len(targetSet))
	if score > 1.0 {
		return 1.0
	}
	return score
}

// ContainsFold reports whether substr appears in s, case-insensitively.
// An empty substr never matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
