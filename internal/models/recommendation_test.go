package models_test

import (
	"encoding/json"
	"testing"

	"github.com/persistorai/recommender/internal/models"
)

func TestRecommendation_Clone(t *testing.T) {
	score := 0.77
	orig := models.Recommendation{
		ProductID:  "P2",
		Source:     models.SourceSimilarity,
		FinalScore: &score,
		Attributes: map[string]any{"rating": 4.5},
	}

	c := orig.Clone()
	*c.FinalScore = 0
	c.Attributes["rating"] = 1.0

	if score != 0.77 {
		t.Errorf("original score changed to %v", score)
	}
	if orig.Attributes["rating"] != 4.5 {
		t.Errorf("original attributes changed: %v", orig.Attributes)
	}

	empty := models.Recommendation{ProductID: "P3"}.Clone()
	if empty.FinalScore != nil || empty.Attributes != nil {
		t.Errorf("clone of bare recommendation = %+v", empty)
	}
}

func TestRecommendation_MarshalJSONFlattens(t *testing.T) {
	score := 0.5
	r := models.Recommendation{
		ProductID:   "P2",
		ProductName: "Blue Shoes",
		Source:      models.SourceSimilarity,
		FinalScore:  &score,
		Attributes:  map[string]any{"rating": 4.1, "product_id": "ignored"},
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["product_id"] != "P2" || got["rating"] != 4.1 || got["final_score"] != 0.5 {
		t.Errorf("body = %v", got)
	}
}
