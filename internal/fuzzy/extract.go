package fuzzy

// Result is the best-scoring choice returned by ExtractOne.
type Result struct {
	Index  int
	Choice string
	Score  float64
}

// ExtractOne scores query against every choice with WRatio and returns the best
// one. Ties keep the earliest choice. The result is reported only when its score
// is strictly greater than cutoff, so a cutoff of 0 rejects queries sharing
// nothing with any choice.
func ExtractOne(query string, choices []string, cutoff float64) (Result, bool) {
	if len(choices) == 0 || Process(query) == "" {
		return Result{}, false
	}

	best := Result{Index: -1, Score: cutoff}
	for i, choice := range choices {
		score := WRatio(query, choice)
		if score > best.Score {
			best = Result{Index: i, Choice: choice, Score: score}
			if score == maxScore {
				break
			}
		}
	}

	if best.Index < 0 {
		return Result{}, false
	}

	return best, true
}
