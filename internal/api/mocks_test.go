package api_test

import (
	"context"

	"github.com/persistorai/recommender/internal/artifact"
	"github.com/persistorai/recommender/internal/models"
)

// mockProducts implements api.ProductQuerier for testing.
type mockProducts struct {
	getFn     func(ctx context.Context, id string) (*models.Product, error)
	catalogFn func(ctx context.Context, limit int) ([]models.CatalogEntry, error)
}

func (m *mockProducts) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockProducts) ListCatalog(ctx context.Context, limit int) ([]models.CatalogEntry, error) {
	return m.catalogFn(ctx, limit)
}

// mockMatcher implements api.Matcher for testing.
type mockMatcher struct {
	matchFn func(ctx context.Context, query string) (*models.Match, error)
}

func (m *mockMatcher) FindBestMatch(ctx context.Context, query string) (*models.Match, error) {
	return m.matchFn(ctx, query)
}

// mockRecommender implements api.Recommender and records the requested sizes.
type mockRecommender struct {
	recommendFn func(ctx context.Context, seedID string, topN int) ([]models.Recommendation, error)
	seeds       []string
	topNs       []int
}

func (m *mockRecommender) Recommend(ctx context.Context, seedID string, topN int) ([]models.Recommendation, error) {
	m.seeds = append(m.seeds, seedID)
	m.topNs = append(m.topNs, topN)
	return m.recommendFn(ctx, seedID, topN)
}

// mockPrices implements api.PriceQuoter for testing.
type mockPrices struct {
	priceFn func(ctx context.Context, id string) (models.PriceQuote, error)
}

func (m *mockPrices) LivePrice(ctx context.Context, id string) (models.PriceQuote, error) {
	return m.priceFn(ctx, id)
}

// mockArtifacts implements api.ArtifactStatus for testing.
type mockArtifacts struct {
	loaded  bool
	loadErr error
	stats   artifact.Stats
}

func (m *mockArtifacts) IsLoaded() bool { return m.loaded }

func (m *mockArtifacts) EnsureLoaded(_ context.Context) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = true
	return nil
}

func (m *mockArtifacts) Stats() artifact.Stats { return m.stats }

// shoeProducts serves a three-product catalog.
func shoeProducts() *mockProducts {
	catalog := []models.CatalogEntry{
		{ProductID: "P1", ProductName: "Red Shoes"},
		{ProductID: "P2", ProductName: "Blue Shoes"},
		{ProductID: "P3", ProductName: "Red Hat"},
	}

	return &mockProducts{
		getFn: func(_ context.Context, id string) (*models.Product, error) {
			for _, e := range catalog {
				if e.ProductID == id {
					return &models.Product{ProductID: id, ProductName: e.ProductName, ReviewsSample: []string{}}, nil
				}
			}
			return nil, models.ErrProductNotFound
		},
		catalogFn: func(_ context.Context, limit int) ([]models.CatalogEntry, error) {
			if limit > 0 && limit < len(catalog) {
				return catalog[:limit], nil
			}
			return catalog, nil
		},
	}
}

// echoRecommender returns topN placeholder recommendations.
func echoRecommender() *mockRecommender {
	return &mockRecommender{
		recommendFn: func(_ context.Context, _ string, topN int) ([]models.Recommendation, error) {
			out := []models.Recommendation{}
			for i := 0; i < topN && i < 2; i++ {
				out = append(out, models.Recommendation{
					ProductID:   []string{"P2", "P3"}[i],
					ProductName: []string{"Blue Shoes", "Red Hat"}[i],
					Source:      models.SourcePrecomputed,
				})
			}
			return out, nil
		},
	}
}
