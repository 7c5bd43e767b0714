package client

import "encoding/json"

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status          string  `json:"status"`
	ArtifactsLoaded bool    `json:"artifacts_loaded"`
	Version         string  `json:"version"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// StatsResponse describes the snapshot currently loaded by the server.
type StatsResponse struct {
	Loaded           bool     `json:"loaded"`
	ModelsLoaded     bool     `json:"models_loaded"`
	ModelsAvailable  bool     `json:"models_available"`
	MetadataSource   string   `json:"metadata_source,omitempty"`
	Products         int      `json:"products"`
	CatalogEntries   int      `json:"catalog_entries"`
	PrecomputedSeeds int      `json:"precomputed_seeds"`
	PrecomputedRows  int      `json:"precomputed_rows"`
	MatrixRows       int      `json:"matrix_rows"`
	MatrixCols       int      `json:"matrix_cols"`
	Loads            int64    `json:"loads"`
	ModelLoads       int64    `json:"model_loads"`
	MergeSteps       []string `json:"merge_steps,omitempty"`
}

// CatalogEntry is one (id, name) pair of the catalog listing.
type CatalogEntry struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

// Product is the detail view of a single product.
type Product struct {
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	Category        string   `json:"category"`
	Rating          float64  `json:"rating"`
	DiscountedPrice float64  `json:"discounted_price"`
	ImgLink         string   `json:"img_link"`
	ProductLink     string   `json:"product_link"`
	AvgSentiment    float64  `json:"avg_sentiment"`
	PercentPositive float64  `json:"percent_positive"`
	PercentNegative float64  `json:"percent_negative"`
	ReviewsSample   []string `json:"reviews_sample"`
}

// PriceQuote is a live or cached price.
type PriceQuote struct {
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}

// IsLive reports whether the price came from the storefront.
func (q *PriceQuote) IsLive() bool { return q.Status == "live" }

// Recommendation is one ranked entry. Attributes holds every field of the
// entry, the canonical ones included.
type Recommendation struct {
	ProductID   string
	ProductName string
	Source      string
	FinalScore  *float64
	Attributes  map[string]any
}

// UnmarshalJSON keeps the full object in Attributes and lifts the canonical fields.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Attributes = raw
	r.ProductID, _ = raw["product_id"].(string)
	r.ProductName, _ = raw["product_name"].(string)
	r.Source, _ = raw["source"].(string)
	if v, ok := raw["final_score"].(float64); ok {
		r.FinalScore = &v
	}
	return nil
}

// MarshalJSON writes the entry back in the server's flat shape.
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

// RecommendResponse is returned by both recommendation endpoints. MatchScore
// is only set for name queries.
type RecommendResponse struct {
	SeedProductID   string           `json:"seed_product_id"`
	SeedProductName string           `json:"seed_product_name"`
	MatchScore      *float64         `json:"match_score,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}
