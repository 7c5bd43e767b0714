package models

import (
	"encoding/json"
	"maps"
)

// Recommendation sources.
const (
	SourcePrecomputed = "precomputed"
	SourceSimilarity  = "similarity"
)

// Recommendation is one ranked entry in a recommendation list.
//
// Attributes carries every other column known for the entry: the offline columns
// of a precomputed row, or the full catalog record for similarity results. They
// are flattened into the JSON object next to the canonical fields.
type Recommendation struct {
	ProductID   string
	ProductName string
	Source      string
	FinalScore  *float64
	Attributes  map[string]any
}

// Clone returns a copy that shares no score pointer or attribute map with r.
func (r Recommendation) Clone() Recommendation {
	if r.FinalScore != nil {
		score := *r.FinalScore
		r.FinalScore = &score
	}
	r.Attributes = maps.Clone(r.Attributes)

	return r
}

// MarshalJSON flattens Attributes into the top-level object.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attributes)+4)
	for k, v := range r.Attributes {
		out[k] = v
	}

	out["product_id"] = r.ProductID
	out["product_name"] = r.ProductName
	out["source"] = r.Source

	if r.FinalScore != nil {
		out["final_score"] = *r.FinalScore
	}

	return json.Marshal(out)
}

// PrecomputedRecommendation is one row of the offline recommendation table.
type PrecomputedRecommendation struct {
	SeedProductID string
	Rank          float64
	ProductID     string
	ProductName   string

	// Columns holds the remaining offline columns (seed id and rank included).
	Columns map[string]any
}

// Match is the result of resolving a free-text query against the catalog.
// Score is on a 0-100 scale, higher is more confident.
type Match struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Score       float64 `json:"score"`
}
