package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Supported neighbour metrics.
const (
	MetricCosine    = "cosine"
	MetricEuclidean = "euclidean"
)

// NeighborParams are the nearest-neighbour settings exported alongside the matrix.
type NeighborParams struct {
	Metric     string `yaml:"metric"`
	Algorithm  string `yaml:"algorithm"`
	NNeighbors int    `yaml:"n_neighbors"`
}

// DefaultNeighborParams is used when no parameter file is shipped.
func DefaultNeighborParams() NeighborParams {
	return NeighborParams{Metric: MetricCosine, Algorithm: "brute", NNeighbors: 15}
}

// loadNeighborParams reads the parameter file, falling back to the defaults
// when it does not exist.
func loadNeighborParams(path string) (NeighborParams, bool, error) {
	params := DefaultNeighborParams()

	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured artifact dir.
	if errors.Is(err, fs.ErrNotExist) {
		return params, false, nil
	}
	if err != nil {
		return params, false, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return DefaultNeighborParams(), false, fmt.Errorf("parsing %s: %w", path, err)
	}

	switch params.Metric {
	case "":
		params.Metric = MetricCosine
	case MetricCosine, MetricEuclidean:
	default:
		return DefaultNeighborParams(), false, fmt.Errorf("%s: unsupported metric %q", path, params.Metric)
	}

	return params, true, nil
}

// Neighbor is one result of a nearest-neighbour query.
type Neighbor struct {
	Row      int
	Distance float64
}

// NeighborIndex is a brute-force nearest-neighbour index over the rows of a
// sparse matrix.
type NeighborIndex struct {
	matrix *CSRMatrix
	params NeighborParams
}

// NewNeighborIndex creates an index over m.
func NewNeighborIndex(m *CSRMatrix, params NeighborParams) *NeighborIndex {
	if m.norms == nil {
		m.computeNorms()
	}

	return &NeighborIndex{matrix: m, params: params}
}

// Rows returns the number of indexed rows.
func (ix *NeighborIndex) Rows() int {
	return ix.matrix.Rows
}

// Params returns the index parameters.
func (ix *NeighborIndex) Params() NeighborParams {
	return ix.params
}

// KNeighbors returns the k rows closest to row seed, the seed itself included,
// ordered by ascending distance with ties broken by row number.
func (ix *NeighborIndex) KNeighbors(seed, k int) ([]Neighbor, error) {
	m := ix.matrix
	if seed < 0 || seed >= m.Rows {
		return nil, fmt.Errorf("row %d out of range [0,%d)", seed, m.Rows)
	}
	if k <= 0 {
		return nil, nil
	}

	dense := make([]float64, m.Cols)
	cols, vals := m.row(seed)
	for j, c := range cols {
		dense[c] += vals[j]
	}

	all := make([]Neighbor, m.Rows)
	for i := 0; i < m.Rows; i++ {
		all[i] = Neighbor{Row: i, Distance: ix.distance(dense, seed, i)}
	}

	sort.Slice(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Row < all[b].Row
	})

	if k > len(all) {
		k = len(all)
	}

	return all[:k], nil
}

// distance computes the configured metric between the dense seed row and row i.
func (ix *NeighborIndex) distance(dense []float64, seed, i int) float64 {
	m := ix.matrix
	cols, vals := m.row(i)

	var dot float64
	for j, c := range cols {
		dot += vals[j] * dense[c]
	}

	if ix.params.Metric == MetricEuclidean {
		sq := m.norms[seed]*m.norms[seed] + m.norms[i]*m.norms[i] - 2*dot
		return math.Sqrt(math.Max(sq, 0))
	}

	denom := m.norms[seed] * m.norms[i]
	if denom == 0 {
		return 1
	}

	d := 1 - dot/denom

	return math.Min(math.Max(d, 0), 2)
}
