package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// tokenSetRatio returns a 0-100 similarity between two strings. Both
// sides are uppercased and reduced to sorted unique word sets, then the
// best ratio among the intersection/remainder combinations wins. Word
// order and repeated words do not affect the score, and a full subset
// scores 100.
func tokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	both, onlyA, onlyB := partitionTokens(tokensA, tokensB)

	base := strings.Join(both, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := ratio(base, combinedA)
	if r := ratio(base, combinedB); r > best {
		best = r
	}
	if r := ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// ratio is the normalized Levenshtein similarity of two strings on a
// 0-100 scale.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	return levenshtein.RatioForStrings(ra, rb, levenshtein.DefaultOptions) * 100
}

// tokenSet splits a string into its sorted unique uppercase word set.
func tokenSet(s string) []string {
	words := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	var tokens []string
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// partitionTokens splits two sorted token sets into the shared tokens
// and each side's remainder.
func partitionTokens(a, b []string) (both, onlyA, onlyB []string) {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}
	inBoth := make(map[string]bool)
	for _, t := range a {
		if inB[t] {
			both = append(both, t)
			inBoth[t] = true
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range b {
		if !inBoth[t] {
			onlyB = append(onlyB, t)
		}
	}
	return both, onlyA, onlyB
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
