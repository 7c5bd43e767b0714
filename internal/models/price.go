package models

// Price quote states.
const (
	PriceLive   = "live"
	PriceCached = "cached"
)

// PriceQuote is the answer to a live price lookup. Status is PriceLive when the
// storefront returned a price and PriceCached when the snapshot value was used.
type PriceQuote struct {
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}
