// Package fuzzy implements weighted-ratio string similarity for resolving
// free-text queries to catalog names.
//
// All scores are on a 0-100 scale where 100 means the processed strings are
// identical. Similarity is derived from Levenshtein distance normalised by the
// longer input.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scaling factors applied by WRatio to the secondary scorers.
const (
	tokenScale       = 0.95
	partialScale     = 0.90
	longPartialScale = 0.60
	partialLenRatio  = 1.5
	longPartialRatio = 8.0
	maxScore         = 100.0
)

// Process lower-cases s, replaces every non-alphanumeric rune with a space and
// trims the result.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

// Ratio returns the Levenshtein similarity of a and b: 100 * (1 - distance /
// longer length), counted in runes.
func Ratio(a, b string) float64 {
	if a == b {
		return maxScore
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}

	longest := max(la, lb)
	dist := levenshtein.ComputeDistance(a, b)

	return maxScore * (1 - float64(dist)/float64(longest))
}

// PartialRatio returns the best Ratio of the shorter string against every
// equally long window of the longer one.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	if len(short) == 0 {
		if len(long) == 0 {
			return maxScore
		}
		return 0
	}

	s := string(short)
	best := 0.0

	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(s, string(long[i:i+len(short)]))
		if score > best {
			best = score
			if best == maxScore {
				break
			}
		}
	}

	return best
}

// TokenSortRatio compares the inputs after sorting their tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// shared-plus-remaining tokens and keeps the best score.
func TokenSetRatio(a, b string) float64 {
	return tokenSet(a, b, Ratio)
}

// WRatio combines Ratio, PartialRatio, TokenSortRatio and TokenSetRatio with
// the weighting of the classic weighted ratio: partial scorers are used only
// when the inputs differ a lot in length, and secondary scores are scaled down
// so an exact full-string match always wins. The base scorer is Ratio, so
// scores follow the Levenshtein-normalised curve rather than the InDel one:
// "red shoe" against "red shoes" is 88.9 (one edit over nine runes), not 94.1.
//
// Inputs are passed through Process first. Either input empty after processing
// yields 0.
func WRatio(a, b string) float64 {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := Ratio(p1, p2)

	l1, l2 := utf8.RuneCountInString(p1), utf8.RuneCountInString(p2)
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	if lenRatio < partialLenRatio {
		tsor := TokenSortRatio(p1, p2) * tokenScale
		tser := TokenSetRatio(p1, p2) * tokenScale

		return max(base, tsor, tser)
	}

	scale := partialScale
	if lenRatio >= longPartialRatio {
		scale = longPartialScale
	}

	partial := PartialRatio(p1, p2) * scale
	ptsor := PartialRatio(sortedTokens(p1), sortedTokens(p2)) * tokenScale * scale
	ptser := tokenSet(p1, p2, PartialRatio) * tokenScale * scale

	return max(base, partial, ptsor, ptser)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)

	return strings.Join(tokens, " ")
}

func tokenSet(a, b string, scorer func(string, string) float64) float64 {
	setA, setB := tokenSetOf(a), tokenSetOf(b)

	var shared, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	if sect != "" && (len(onlyA) == 0 || len(onlyB) == 0) {
		return maxScore
	}

	return max(scorer(sect, combinedA), scorer(sect, combinedB), scorer(combinedA, combinedB))
}

func tokenSetOf(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		out[t] = struct{}{}
	}

	return out
}
