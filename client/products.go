package client

import (
	"context"
	"net/url"
)

// ProductService reads catalog and product data.
type ProductService struct {
	c *Client
}

// Catalog returns the (id, name) listing, capped by the server.
func (s *ProductService) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := s.c.get(ctx, "/meta/products", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.c.get(ctx, "/product/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LivePrice returns the storefront price, or the cached one when the lookup fails.
func (s *ProductService) LivePrice(ctx context.Context, id string) (*PriceQuote, error) {
	var q PriceQuote
	if err := s.c.get(ctx, "/product/live_price/"+url.PathEscape(id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
