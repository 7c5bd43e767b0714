package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/fuzzy"
	"github.com/persistorai/recommender/internal/metrics"
	"github.com/persistorai/recommender/internal/models"
)

// MatchService resolves free-text queries to catalog entries.
type MatchService struct {
	store    CatalogStore
	minScore float64
	log      *logrus.Logger
}

// NewMatchService creates a MatchService. Matches must score strictly above
// minScore on the 0-100 scale.
func NewMatchService(store CatalogStore, minScore float64, log *logrus.Logger) *MatchService {
	return &MatchService{store: store, minScore: minScore, log: log}
}

// FindBestMatch returns the catalog entry whose name best matches query. Ties
// go to the entry listed first. It returns models.ErrNoMatch when the catalog
// is empty, the query has no searchable characters, or nothing clears the
// minimum score.
func (s *MatchService) FindBestMatch(ctx context.Context, query string) (*models.Match, error) {
	if err := s.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	catalog := s.store.Catalog()
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.ProductName
	}

	res, ok := fuzzy.ExtractOne(query, names, s.minScore)
	if !ok {
		metrics.MatchesTotal.WithLabelValues("miss").Inc()
		s.log.WithFields(logrus.Fields{
			"query":   query,
			"catalog": len(catalog),
		}).Debug("no catalog match")
		return nil, models.ErrNoMatch
	}

	metrics.MatchesTotal.WithLabelValues("hit").Inc()
	entry := catalog[res.Index]

	return &models.Match{
		ProductID:   entry.ProductID,
		ProductName: res.Choice,
		Score:       res.Score,
	}, nil
}
