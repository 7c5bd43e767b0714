// Package models defines data types for the recommendation service.
package models

import "strings"

// ReviewDelimiter separates individual reviews inside an aggregated review blob.
const ReviewDelimiter = " ||| "

// MaxReviewSamples caps the number of review snippets exposed per product.
const MaxReviewSamples = 10

// Default values applied to every catalog record after the snapshot merge.
const (
	DefaultProductName = "Unknown"
	DefaultCategory    = "General"
)

// ProductRecord is a fully merged catalog row. Every field is always populated,
// missing source values are replaced with their defaults at load time.
type ProductRecord struct {
	ProductID         string
	ProductName       string
	Category          string
	Rating            float64
	AvgRating         float64
	DiscountedPrice   float64
	ImgLink           string
	ProductLink       string
	AvgSentiment      float64
	PercentPositive   float64
	PercentNegative   float64
	AggregatedReviews string

	// Extra holds source columns outside the fixed schema, keyed by column name.
	Extra map[string]string
}

// Fields flattens the record into a column-name keyed map, extra columns included.
// Numeric extra columns are reported as float64.
func (r *ProductRecord) Fields() map[string]any {
	out := make(map[string]any, 12+len(r.Extra))
	for k, v := range r.Extra {
		out[k] = ParseCell(v)
	}

	out["product_id"] = r.ProductID
	out["product_name"] = r.ProductName
	out["category"] = r.Category
	out["rating"] = r.Rating
	out["avg_rating"] = r.AvgRating
	out["discounted_price"] = r.DiscountedPrice
	out["img_link"] = r.ImgLink
	out["product_link"] = r.ProductLink
	out["avg_sentiment"] = r.AvgSentiment
	out["percent_positive"] = r.PercentPositive
	out["percent_negative"] = r.PercentNegative
	out["aggregated_reviews"] = r.AggregatedReviews

	return out
}

// Product is the normalised, UI-safe view of a single catalog record.
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

// NewProduct builds the normalised view of a record.
func NewProduct(r *ProductRecord) *Product {
	return &Product{
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		Category:        r.Category,
		Rating:          r.Rating,
		DiscountedPrice: r.DiscountedPrice,
		ImgLink:         r.ImgLink,
		ProductLink:     r.ProductLink,
		AvgSentiment:    r.AvgSentiment,
		PercentPositive: r.PercentPositive,
		PercentNegative: r.PercentNegative,
		ReviewsSample:   SplitReviews(r.AggregatedReviews),
	}
}

// SplitReviews splits an aggregated review blob and keeps the first MaxReviewSamples entries.
// An empty blob yields a single empty snippet, matching a plain string split.
func SplitReviews(blob string) []string {
	parts := strings.SplitN(blob, ReviewDelimiter, MaxReviewSamples+1)
	if len(parts) > MaxReviewSamples {
		parts = parts[:MaxReviewSamples]
	}

	return parts
}

// CatalogEntry is the lightweight (id, name) projection used for typeahead and matching.
type CatalogEntry struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}
