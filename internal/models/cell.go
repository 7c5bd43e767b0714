package models

import (
	"math"
	"strconv"
	"strings"
)

// numberReplacer strips thousands separators and currency marks from numeric cells.
var numberReplacer = strings.NewReplacer(",", "", "₹", "", "%", "")

// ParseNumber parses a snapshot cell as a float. Empty, NaN and unparsable cells
// report false so callers can apply the column default.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(numberReplacer.Replace(s))
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// ParseCell returns a float64 for numeric cells and the raw string otherwise.
func ParseCell(s string) any {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}

	return v
}
