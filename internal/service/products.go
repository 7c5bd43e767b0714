// Package service implements the query operations served over the loaded artifacts.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/models"
)

// CatalogStore defines the artifact accessors ProductService and MatchService depend on.
type CatalogStore interface {
	EnsureLoaded(ctx context.Context) error
	Product(id string) (*models.ProductRecord, bool)
	Catalog() []models.CatalogEntry
}

// ProductService resolves product metadata.
type ProductService struct {
	store CatalogStore
	log   *logrus.Logger
}

// NewProductService creates a ProductService.
func NewProductService(store CatalogStore, log *logrus.Logger) *ProductService {
	return &ProductService{store: store, log: log}
}

// GetProduct returns the normalised record for id, or models.ErrProductNotFound.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, models.ErrMissingID
	}

	if err := s.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	rec, ok := s.store.Product(id)
	if !ok {
		return nil, models.ErrProductNotFound
	}

	return models.NewProduct(rec), nil
}

// ListCatalog returns the (id, name) projection in catalog order. A limit of
// zero or less returns every entry.
func (s *ProductService) ListCatalog(ctx context.Context, limit int) ([]models.CatalogEntry, error) {
	if err := s.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	entries := s.store.Catalog()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]models.CatalogEntry, len(entries))
	copy(out, entries)

	return out, nil
}
