package artifact

import (
	"fmt"
	"sort"

	"github.com/persistorai/recommender/internal/models"
)

// Precomputed table column names.
const (
	colSeedProductID          = "seed_product_id"
	colRank                   = "rank"
	colRecommendedProductID   = "recommended_product_id"
	colRecommendedProductName = "recommended_product_name"
)

// precomputedTable groups offline recommendation rows by seed, each group
// ordered by ascending rank.
type precomputedTable struct {
	bySeed map[string][]models.PrecomputedRecommendation
	rows   int
}

// loadPrecomputed reads the offline recommendation table. Rows with a missing
// seed, a missing recommended id, or an unparsable rank are skipped and counted.
func loadPrecomputed(path string) (*precomputedTable, int, error) {
	f, skipped, err := readFrame(path)
	if err != nil {
		return nil, 0, err
	}

	for _, col := range []string{colSeedProductID, colRank, colRecommendedProductID} {
		if !f.has(col) {
			return nil, skipped, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	t := &precomputedTable{bySeed: make(map[string][]models.PrecomputedRecommendation)}

	for _, row := range f.rows {
		seed := f.cell(row, colSeedProductID)
		recID := f.cell(row, colRecommendedProductID)
		rank, ok := models.ParseNumber(f.cell(row, colRank))
		if isNA(seed) || isNA(recID) || !ok {
			skipped++
			continue
		}

		rec := models.PrecomputedRecommendation{
			SeedProductID: seed,
			Rank:          rank,
			ProductID:     recID,
			ProductName:   f.cell(row, colRecommendedProductName),
			Columns:       make(map[string]any, len(f.columns)),
		}

		for i, col := range f.columns {
			if col == colRecommendedProductID || col == colRecommendedProductName || col == "" {
				continue
			}
			if i < len(row) {
				rec.Columns[col] = models.ParseCell(row[i])
			}
		}
		rec.Columns[colSeedProductID] = seed
		rec.Columns[colRank] = rank

		t.bySeed[seed] = append(t.bySeed[seed], rec)
		t.rows++
	}

	for seed := range t.bySeed {
		group := t.bySeed[seed]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Rank < group[j].Rank })
	}

	return t, skipped, nil
}

// forSeed returns the rank-ordered rows for a seed. The slice is shared and
// must not be modified.
func (t *precomputedTable) forSeed(seed string) []models.PrecomputedRecommendation {
	if t == nil {
		return nil
	}

	return t.bySeed[seed]
}
