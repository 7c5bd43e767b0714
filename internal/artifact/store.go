// Package artifact loads the offline recommendation snapshots into memory and
// serves read-only views over them.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/recommender/internal/metrics"
	"github.com/persistorai/recommender/internal/models"
)

// Snapshot file names inside the artifact directory.
const (
	FilePrecomputed        = "all_product_recs_top10.csv"
	FileMetadataReconciled = "products_aggregated_recon.csv"
	FileMetadata           = "products_aggregated.csv"
	FileSentiment          = "sentiment_agg.csv"
	FileRawDataset         = "cleaned_dataset.csv"
	FileMatrix             = "tfidf_matrix.npz"
	FileNeighborParams     = "nn_model.yaml"
)

// SnapshotFiles lists every file the store knows how to read.
var SnapshotFiles = []string{
	FilePrecomputed,
	FileMetadataReconciled,
	FileMetadata,
	FileSentiment,
	FileRawDataset,
	FileMatrix,
	FileNeighborParams,
}

// Load states.
const (
	stateUnloaded int32 = iota
	stateLoading
	stateLoaded
)

const (
	groupMetadata = "metadata"
	groupModels   = "models"
)

// DefaultSyncTimeout bounds the bucket sync that precedes the first load.
const DefaultSyncTimeout = 2 * time.Minute

// Syncer fetches snapshot files into a local directory before loading.
type Syncer interface {
	Sync(ctx context.Context, dir string) int
}

// snapshot is the immutable result of a metadata load.
type snapshot struct {
	records     map[string]*models.ProductRecord
	ids         []string
	catalog     []models.CatalogEntry
	precomputed *precomputedTable
	source      string
	reports     []stepReport
}

// modelSet is the immutable result of a model load. index is nil when the
// similarity index is unavailable.
type modelSet struct {
	index *NeighborIndex
	rowOf map[string]int
	ids   []string
}

// ProductNeighbor is a nearest neighbour resolved to its product id.
type ProductNeighbor struct {
	ProductID string
	Distance  float64
}

// Stats summarises what the store has loaded.
type Stats struct {
	Loaded           bool   `json:"loaded"`
	ModelsLoaded     bool   `json:"models_loaded"`
	ModelsAvailable  bool   `json:"models_available"`
	MetadataSource   string `json:"metadata_source,omitempty"`
	Products         int    `json:"products"`
	CatalogEntries   int    `json:"catalog_entries"`
	PrecomputedSeeds int    `json:"precomputed_seeds"`
	PrecomputedRows  int    `json:"precomputed_rows"`
	MatrixRows       int    `json:"matrix_rows"`
	MatrixCols       int    `json:"matrix_cols"`
	NeighborMetric   string `json:"neighbor_metric,omitempty"`
	Loads            int64  `json:"loads"`
	ModelLoads       int64  `json:"model_loads"`

	MergeSteps []string `json:"merge_steps,omitempty"`
}

// Store holds every loaded artifact. Loads happen at most once each and are
// shared by concurrent callers; readers see either nothing or a fully merged
// snapshot.
type Store struct {
	dir         string
	log         *logrus.Logger
	syncer      Syncer
	syncTimeout time.Duration

	state      atomic.Int32
	modelState atomic.Int32
	snap       atomic.Pointer[snapshot]
	models     atomic.Pointer[modelSet]
	group      singleflight.Group

	loads      atomic.Int64
	modelLoads atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithSyncer makes the store pull snapshots through s before the first load.
func WithSyncer(s Syncer) Option {
	return func(st *Store) { st.syncer = s }
}

// WithSyncTimeout bounds how long the bucket sync may run before the load
// continues with the files already on disk. Non-positive values keep the default.
func WithSyncTimeout(d time.Duration) Option {
	return func(st *Store) {
		if d > 0 {
			st.syncTimeout = d
		}
	}
}

// New creates a Store reading snapshots from dir. Nothing is read until the
// first EnsureLoaded call.
func New(dir string, log *logrus.Logger, opts ...Option) *Store {
	s := &Store{dir: dir, log: log, syncTimeout: DefaultSyncTimeout}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IsLoaded reports whether the metadata load has completed.
func (s *Store) IsLoaded() bool {
	return s.state.Load() == stateLoaded
}

// EnsureLoaded loads the metadata and precomputed snapshots if that has not
// happened yet. Concurrent callers wait for the same load. Missing or broken
// files are logged and leave empty defaults; the only error is ctx ending
// while waiting, in which case the load still completes in the background.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.IsLoaded() {
		return nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(groupMetadata, func() (any, error) {
		if s.IsLoaded() {
			return nil, nil
		}

		s.state.Store(stateLoading)
		s.snap.Store(s.load(loadCtx))
		s.state.Store(stateLoaded)

		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// load reads every metadata snapshot and builds the derived indexes.
func (s *Store) load(ctx context.Context) *snapshot {
	start := time.Now()
	s.loads.Add(1)
	s.log.WithField("dir", s.dir).Info("loading artifacts")

	if s.syncer != nil {
		s.sync(ctx)
	}

	snap := &snapshot{}

	precomputedStart := time.Now()
	snap.precomputed = s.loadPrecomputedTable()
	metrics.ArtifactLoadDuration.WithLabelValues("precomputed").Observe(time.Since(precomputedStart).Seconds())

	metaStart := time.Now()
	merged, source, reports := runMetadataPipeline(s.dir, s.log)
	snap.source = source
	snap.reports = reports
	for _, r := range reports {
		if r.Err != nil {
			metrics.ArtifactDegradedTotal.WithLabelValues(r.Step).Inc()
		}
	}

	if merged == nil {
		metrics.ArtifactDegradedTotal.WithLabelValues("metadata").Inc()
		s.log.WithField("dir", s.dir).Warn("no metadata loaded, catalog is empty")
	}

	idx := buildCatalog(merged, s.log)
	snap.records = idx.records
	snap.ids = idx.ids
	snap.catalog = idx.entries
	metrics.ArtifactLoadDuration.WithLabelValues("metadata").Observe(time.Since(metaStart).Seconds())
	metrics.CatalogProducts.Set(float64(len(snap.records)))

	s.log.WithFields(logrus.Fields{
		"products":    len(snap.records),
		"precomputed": snap.precomputed != nil,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("artifacts loaded")

	return snap
}

// sync pulls snapshots from the bucket under its own deadline. A stalled or
// failing endpoint leaves the on-disk files in place.
func (s *Store) sync(ctx context.Context) {
	start := time.Now()
	syncCtx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()

	downloaded := s.syncer.Sync(syncCtx, s.dir)
	metrics.ArtifactLoadDuration.WithLabelValues("sync").Observe(time.Since(start).Seconds())

	if errors.Is(syncCtx.Err(), context.DeadlineExceeded) {
		metrics.ArtifactDegradedTotal.WithLabelValues("sync").Inc()
		s.log.WithFields(logrus.Fields{
			"timeout":    s.syncTimeout.String(),
			"downloaded": downloaded,
		}).Warn("snapshot sync timed out, loading files on disk")
	}
}

// loadPrecomputedTable reads the offline recommendation table, returning nil
// when it is missing or unreadable.
func (s *Store) loadPrecomputedTable() *precomputedTable {
	path := filepath.Join(s.dir, FilePrecomputed)

	t, skipped, err := loadPrecomputed(path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.ArtifactDegradedTotal.WithLabelValues("precomputed").Inc()
		s.log.WithField("file", FilePrecomputed).Info("no precomputed recommendations, similarity search only")
		return nil
	}
	if err != nil {
		metrics.ArtifactDegradedTotal.WithLabelValues("precomputed").Inc()
		s.log.WithError(err).Warn("precomputed recommendations unreadable, ignoring")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"seeds":   len(t.bySeed),
		"rows":    t.rows,
		"skipped": skipped,
	}).Info("precomputed recommendations loaded")

	return t
}

// EnsureModelsLoaded loads the feature matrix and neighbour parameters if that
// has not happened yet, after the metadata they align with. A missing or
// inconsistent model leaves the index unavailable rather than failing.
func (s *Store) EnsureModelsLoaded(ctx context.Context) error {
	if s.modelState.Load() == stateLoaded {
		return nil
	}

	if err := s.EnsureLoaded(ctx); err != nil {
		return err
	}

	ch := s.group.DoChan(groupModels, func() (any, error) {
		if s.modelState.Load() == stateLoaded {
			return nil, nil
		}

		s.modelState.Store(stateLoading)
		s.models.Store(s.loadModels())
		s.modelState.Store(stateLoaded)

		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// loadModels reads the matrix and parameters and builds the id to row map.
func (s *Store) loadModels() *modelSet {
	start := time.Now()
	s.modelLoads.Add(1)
	defer func() {
		metrics.ArtifactLoadDuration.WithLabelValues("models").Observe(time.Since(start).Seconds())
	}()

	ids := s.current().ids
	set := &modelSet{ids: ids}

	m, err := LoadCSR(filepath.Join(s.dir, FileMatrix))
	if err != nil {
		metrics.ArtifactDegradedTotal.WithLabelValues("matrix").Inc()
		if errors.Is(err, fs.ErrNotExist) {
			s.log.WithField("file", FileMatrix).Warn("feature matrix not found, similarity search disabled")
		} else {
			s.log.WithError(err).Warn("feature matrix unreadable, similarity search disabled")
		}
		return set
	}

	if m.Rows != len(ids) {
		metrics.ArtifactDegradedTotal.WithLabelValues("matrix").Inc()
		s.log.WithFields(logrus.Fields{
			"matrix_rows": m.Rows,
			"product_ids": len(ids),
		}).Warn("feature matrix does not align with product ids, similarity search disabled")
		return set
	}

	params, found, err := loadNeighborParams(filepath.Join(s.dir, FileNeighborParams))
	if err != nil {
		metrics.ArtifactDegradedTotal.WithLabelValues("neighbor_params").Inc()
		s.log.WithError(err).Warn("neighbour parameters unreadable, using defaults")
	} else if !found {
		s.log.WithField("metric", params.Metric).Debug("no neighbour parameters file, using defaults")
	}

	set.rowOf = make(map[string]int, len(ids))
	for i, id := range ids {
		if isNA(id) {
			continue
		}
		set.rowOf[id] = i
	}
	set.index = NewNeighborIndex(m, params)

	s.log.WithFields(logrus.Fields{
		"rows":   m.Rows,
		"cols":   m.Cols,
		"nnz":    m.NNZ(),
		"metric": params.Metric,
	}).Info("similarity index loaded")

	return set
}

// current returns the loaded snapshot, or an empty one before the first load.
func (s *Store) current() *snapshot {
	if snap := s.snap.Load(); snap != nil {
		return snap
	}

	return &snapshot{}
}

// Product returns the merged record for id.
func (s *Store) Product(id string) (*models.ProductRecord, bool) {
	rec, ok := s.current().records[id]

	return rec, ok
}

// ProductIDs returns the ordered product id list aligned with the feature
// matrix rows. The slice is shared and must not be modified.
func (s *Store) ProductIDs() []string {
	return s.current().ids
}

// Catalog returns the (id, name) projection in metadata order. The slice is
// shared and must not be modified.
func (s *Store) Catalog() []models.CatalogEntry {
	return s.current().catalog
}

// HasPrecomputed reports whether an offline recommendation table is loaded.
func (s *Store) HasPrecomputed() bool {
	return s.current().precomputed != nil
}

// Precomputed returns the offline rows for seed ordered by ascending rank.
// The slice is shared and must not be modified.
func (s *Store) Precomputed(seed string) []models.PrecomputedRecommendation {
	return s.current().precomputed.forSeed(seed)
}

// ModelsAvailable reports whether a similarity index is loaded and usable.
func (s *Store) ModelsAvailable() bool {
	set := s.models.Load()

	return set != nil && set.index != nil
}

// Neighbors returns the k nearest products to seedID, the seed itself included
// when present, ordered by ascending distance. It returns nil when the models
// are not loaded or the seed has no matrix row.
func (s *Store) Neighbors(seedID string, k int) ([]ProductNeighbor, error) {
	set := s.models.Load()
	if set == nil || set.index == nil {
		return nil, nil
	}

	row, ok := set.rowOf[seedID]
	if !ok {
		return nil, nil
	}

	raw, err := set.index.KNeighbors(row, k)
	if err != nil {
		return nil, fmt.Errorf("querying neighbours of %q: %w", seedID, err)
	}

	out := make([]ProductNeighbor, 0, len(raw))
	for _, n := range raw {
		out = append(out, ProductNeighbor{ProductID: set.ids[n.Row], Distance: n.Distance})
	}

	return out, nil
}

// Stats reports what has been loaded so far.
func (s *Store) Stats() Stats {
	snap := s.current()
	st := Stats{
		Loaded:         s.IsLoaded(),
		ModelsLoaded:   s.modelState.Load() == stateLoaded,
		MetadataSource: snap.source,
		Products:       len(snap.records),
		CatalogEntries: len(snap.catalog),
		Loads:          s.loads.Load(),
		ModelLoads:     s.modelLoads.Load(),
	}

	for _, r := range snap.reports {
		outcome := r.Outcome.String()
		if r.Err != nil {
			outcome = "failed"
		}
		st.MergeSteps = append(st.MergeSteps, r.Step+":"+outcome)
	}

	if snap.precomputed != nil {
		st.PrecomputedSeeds = len(snap.precomputed.bySeed)
		st.PrecomputedRows = snap.precomputed.rows
	}

	if set := s.models.Load(); set != nil && set.index != nil {
		st.ModelsAvailable = true
		st.MatrixRows = set.index.Rows()
		st.MatrixCols = set.index.matrix.Cols
		st.NeighborMetric = set.index.Params().Metric
	}

	return st
}
