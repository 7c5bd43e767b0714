package client

import (
	"context"
	"net/url"
	"strconv"
)

// RecommendService requests recommendations.
type RecommendService struct {
	c *Client
}

// ByID returns recommendations for a seed product. A topN of zero uses the
// server default.
func (s *RecommendService) ByID(ctx context.Context, productID string, topN int) (*RecommendResponse, error) {
	params := url.Values{"product_id": {productID}}
	return s.fetch(ctx, "/recommend/by_id", params, topN)
}

// ByName resolves query to the closest catalog product and returns its
// recommendations. A topN of zero uses the server default.
func (s *RecommendService) ByName(ctx context.Context, query string, topN int) (*RecommendResponse, error) {
	params := url.Values{"q": {query}}
	return s.fetch(ctx, "/recommend/by_name", params, topN)
}

func (s *RecommendService) fetch(ctx context.Context, path string, params url.Values, topN int) (*RecommendResponse, error) {
	if topN != 0 {
		params.Set("top_n", strconv.Itoa(topN))
	}

	var resp RecommendResponse
	if err := s.c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
