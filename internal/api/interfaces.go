package api

import (
	"context"

	"github.com/persistorai/recommender/internal/artifact"
	"github.com/persistorai/recommender/internal/models"
)

// ProductQuerier defines the metadata lookups used by ProductHandler and RecommendHandler.
type ProductQuerier interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListCatalog(ctx context.Context, limit int) ([]models.CatalogEntry, error)
}

// Matcher resolves free-text queries to a catalog product.
type Matcher interface {
	FindBestMatch(ctx context.Context, query string) (*models.Match, error)
}

// Recommender produces ranked recommendations for a seed product.
type Recommender interface {
	Recommend(ctx context.Context, seedID string, topN int) ([]models.Recommendation, error)
}

// PriceQuoter answers live price lookups.
type PriceQuoter interface {
	LivePrice(ctx context.Context, productID string) (models.PriceQuote, error)
}

// ArtifactStatus reports on the loaded snapshot for health and stats endpoints.
type ArtifactStatus interface {
	IsLoaded() bool
	EnsureLoaded(ctx context.Context) error
	Stats() artifact.Stats
}
