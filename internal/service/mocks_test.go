package service

import (
	"context"
	"sync"

	"github.com/persistorai/recommender/internal/artifact"
	"github.com/persistorai/recommender/internal/models"
)

// mockStore records calls and serves configured artifacts.
type mockStore struct {
	mu    sync.Mutex
	calls []string

	loadErr      error
	modelErr     error
	records      map[string]*models.ProductRecord
	catalog      []models.CatalogEntry
	precomputed  map[string][]models.PrecomputedRecommendation
	neighbors    func(seedID string, k int) ([]artifact.ProductNeighbor, error)
	neighborArgs []int
}

func (m *mockStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockStore) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockStore) EnsureLoaded(_ context.Context) error {
	m.record("EnsureLoaded")
	return m.loadErr
}

func (m *mockStore) EnsureModelsLoaded(_ context.Context) error {
	m.record("EnsureModelsLoaded")
	return m.modelErr
}

func (m *mockStore) Product(id string) (*models.ProductRecord, bool) {
	rec, ok := m.records[id]
	return rec, ok
}

func (m *mockStore) Catalog() []models.CatalogEntry {
	return m.catalog
}

func (m *mockStore) Precomputed(seed string) []models.PrecomputedRecommendation {
	return m.precomputed[seed]
}

func (m *mockStore) Neighbors(seedID string, k int) ([]artifact.ProductNeighbor, error) {
	m.record("Neighbors")
	m.mu.Lock()
	m.neighborArgs = append(m.neighborArgs, k)
	m.mu.Unlock()
	if m.neighbors == nil {
		return nil, nil
	}
	return m.neighbors(seedID, k)
}

func shoeCatalog() *mockStore {
	return &mockStore{
		records: map[string]*models.ProductRecord{
			"P1": {ProductID: "P1", ProductName: "Red Shoes", Category: "Footwear", Rating: 4.5, AvgSentiment: 0.3,
				AggregatedReviews: "great ||| comfy"},
			"P2": {ProductID: "P2", ProductName: "Blue Shoes", Category: "Footwear", Rating: 4.5, AvgSentiment: 0.25},
			"P3": {ProductID: "P3", ProductName: "Red Hat", Category: "General", Rating: 3.0, AvgSentiment: -0.2},
		},
		catalog: []models.CatalogEntry{
			{ProductID: "P1", ProductName: "Red Shoes"},
			{ProductID: "P2", ProductName: "Blue Shoes"},
			{ProductID: "P3", ProductName: "Red Hat"},
		},
	}
}
