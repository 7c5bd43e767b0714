package service

import (
	"context"
	"maps"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/artifact"
	"github.com/persistorai/recommender/internal/metrics"
	"github.com/persistorai/recommender/internal/models"
)

// NeighborOverfetch is the number of extra neighbours requested beyond topN to
// absorb the seed itself and neighbours missing from the catalog.
const NeighborOverfetch = 5

// RecommendStore defines the artifact accessors RecommendService depends on.
type RecommendStore interface {
	EnsureLoaded(ctx context.Context) error
	EnsureModelsLoaded(ctx context.Context) error
	Product(id string) (*models.ProductRecord, bool)
	Precomputed(seed string) []models.PrecomputedRecommendation
	Neighbors(seedID string, k int) ([]artifact.ProductNeighbor, error)
}

type cacheKey struct {
	seed string
	topN int
}

// RecommendService produces ranked recommendations for a seed product.
type RecommendService struct {
	store  RecommendStore
	policy RerankPolicy
	cache  *lru.Cache[cacheKey, []models.Recommendation]
	log    *logrus.Logger
}

// NewRecommendService creates a RecommendService. Similarity results are
// cached for up to cacheSize (seed, topN) pairs; a size of zero or less
// disables the cache.
func NewRecommendService(store RecommendStore, policy RerankPolicy, cacheSize int, log *logrus.Logger) *RecommendService {
	s := &RecommendService{store: store, policy: policy, log: log}

	if cacheSize > 0 {
		cache, err := lru.New[cacheKey, []models.Recommendation](cacheSize)
		if err != nil {
			log.WithError(err).Warn("similarity cache disabled")
		} else {
			s.cache = cache
		}
	}

	return s
}

// Recommend returns up to topN products related to seedID. Precomputed rows
// are served verbatim when the table covers the seed; otherwise neighbours are
// found by similarity search and re-ranked. The seed never appears in its own
// list. Missing artifacts yield an empty list, not an error.
func (s *RecommendService) Recommend(ctx context.Context, seedID string, topN int) ([]models.Recommendation, error) {
	if topN <= 0 {
		return []models.Recommendation{}, nil
	}

	if err := s.store.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	if recs := s.precomputed(seedID, topN); len(recs) > 0 {
		metrics.RecommendationsTotal.WithLabelValues(models.SourcePrecomputed).Inc()
		return recs, nil
	}

	key := cacheKey{seed: seedID, topN: topN}
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.RecommendCacheTotal.WithLabelValues("hit").Inc()
			metrics.RecommendationsTotal.WithLabelValues(models.SourceSimilarity).Inc()
			return cloneRecommendations(cached), nil
		}
		metrics.RecommendCacheTotal.WithLabelValues("miss").Inc()
	}

	recs, err := s.similar(ctx, seedID, topN)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(key, recs)
	}
	metrics.RecommendationsTotal.WithLabelValues(models.SourceSimilarity).Inc()

	return cloneRecommendations(recs), nil
}

// cloneRecommendations deep-copies recs so callers never alias cached entries.
func cloneRecommendations(recs []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}

	return out
}

// precomputed serves the offline table rows for seedID in rank order.
func (s *RecommendService) precomputed(seedID string, topN int) []models.Recommendation {
	rows := s.store.Precomputed(seedID)
	if len(rows) == 0 {
		return nil
	}

	out := make([]models.Recommendation, 0, min(topN, len(rows)))
	for _, row := range rows {
		if len(out) == topN {
			break
		}
		if row.ProductID == seedID {
			continue
		}

		out = append(out, models.Recommendation{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Source:      models.SourcePrecomputed,
			Attributes:  maps.Clone(row.Columns),
		})
	}

	return out
}

// similar runs the nearest-neighbour search and re-ranks the candidates.
func (s *RecommendService) similar(ctx context.Context, seedID string, topN int) ([]models.Recommendation, error) {
	if err := s.store.EnsureModelsLoaded(ctx); err != nil {
		return nil, err
	}

	neighbors, err := s.store.Neighbors(seedID, topN+NeighborOverfetch)
	if err != nil {
		s.log.WithError(err).WithField("seed", seedID).Warn("similarity search failed")
		return []models.Recommendation{}, nil
	}

	candidates := make([]models.Recommendation, 0, len(neighbors))
	for _, n := range neighbors {
		if n.ProductID == seedID {
			continue
		}

		rec, ok := s.store.Product(n.ProductID)
		if !ok {
			s.log.WithField("product_id", n.ProductID).Debug("neighbour missing from catalog, dropped")
			continue
		}

		score := s.policy.Score(1-n.Distance, rec.AvgSentiment, rec.Rating)
		candidates = append(candidates, models.Recommendation{
			ProductID:   n.ProductID,
			ProductName: rec.ProductName,
			Source:      models.SourceSimilarity,
			FinalScore:  &score,
			Attributes:  rec.Fields(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].FinalScore > *candidates[j].FinalScore
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	return candidates, nil
}
