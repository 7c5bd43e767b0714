package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/models"
)

// Metadata column names of the fixed target schema.
const (
	colProductID         = "product_id"
	colProductName       = "product_name"
	colCategory          = "category"
	colRating            = "rating"
	colAvgRating         = "avg_rating"
	colDiscountedPrice   = "discounted_price"
	colImgLink           = "img_link"
	colProductLink       = "product_link"
	colAvgSentiment      = "avg_sentiment"
	colPercentPositive   = "percent_positive"
	colPercentNegative   = "percent_negative"
	colAggregatedReviews = "aggregated_reviews"
)

// columnDefault pairs a schema column with the value used when it is missing.
type columnDefault struct {
	column string
	value  string
}

// schemaDefaults is applied after every merge step so each loaded row is total.
var schemaDefaults = []columnDefault{
	{colAvgSentiment, "0"},
	{colPercentPositive, "0"},
	{colPercentNegative, "0"},
	{colRating, "0"},
	{colAvgRating, "0"},
	{colDiscountedPrice, "0"},
	{colProductLink, ""},
	{colImgLink, ""},
	{colProductName, models.DefaultProductName},
	{colCategory, models.DefaultCategory},
	{colAggregatedReviews, ""},
}

// stepOutcome is the result of a successful merge step.
type stepOutcome int

const (
	stepApplied stepOutcome = iota
	stepSkipped
)

func (o stepOutcome) String() string {
	if o == stepApplied {
		return "applied"
	}

	return "skipped"
}

// stepReport records what a merge step did.
type stepReport struct {
	Step    string
	Outcome stepOutcome
	Detail  string
	Err     error
}

// metadataMerge is the state threaded through the merge pipeline.
type metadataMerge struct {
	dir    string
	frame  *frame
	source string
}

// path resolves a snapshot file name inside the artifact directory.
func (m *metadataMerge) path(name string) string {
	return filepath.Join(m.dir, name)
}

// mergeStep is one typed, fallible stage of the metadata merge. A step either
// applies, skips with a reason, or fails; a failure leaves the frame untouched.
type mergeStep struct {
	name string
	run  func(m *metadataMerge) (stepOutcome, string, error)
}

// metadataPipeline lists the merge steps in precedence order.
func metadataPipeline() []mergeStep {
	return []mergeStep{
		{name: "base", run: loadBaseMetadata},
		{name: "sentiment", run: mergeSentiment},
		{name: "links", run: mergeLinks},
		{name: "rating", run: normaliseRating},
		{name: "defaults", run: fillDefaults},
	}
}

// runMetadataPipeline executes every step and returns the merged frame and the
// name of the base snapshot it came from. The frame is nil when no metadata
// snapshot could be read.
func runMetadataPipeline(dir string, log *logrus.Logger) (*frame, string, []stepReport) {
	m := &metadataMerge{dir: dir}
	reports := make([]stepReport, 0, 5)

	for _, step := range metadataPipeline() {
		outcome, detail, err := step.run(m)
		report := stepReport{Step: step.name, Outcome: outcome, Detail: detail, Err: err}
		reports = append(reports, report)

		entry := log.WithFields(logrus.Fields{"step": step.name, "outcome": outcome.String(), "detail": detail})
		switch {
		case err != nil:
			entry.WithError(err).Warn("metadata merge step failed, continuing with partial data")
		case outcome == stepSkipped:
			entry.Debug("metadata merge step skipped")
		default:
			entry.Info("metadata merge step applied")
		}
	}

	return m.frame, m.source, reports
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// loadBaseMetadata reads the reconciled metadata snapshot, falling back to the
// base snapshot.
func loadBaseMetadata(m *metadataMerge) (stepOutcome, string, error) {
	for _, name := range []string{FileMetadataReconciled, FileMetadata} {
		f, skipped, err := readFrame(m.path(name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return stepSkipped, name, err
		}
		if !f.has(colProductID) {
			return stepSkipped, name, fmt.Errorf("%s: missing column %q", name, colProductID)
		}

		m.frame = f
		m.source = name

		return stepApplied, fmt.Sprintf("%s: %d rows, %d malformed skipped", name, len(f.rows), skipped), nil
	}

	return stepSkipped, "no metadata snapshot found", nil
}

// mergeSentiment joins the separate sentiment snapshot when the metadata lacks
// sentiment columns.
func mergeSentiment(m *metadataMerge) (stepOutcome, string, error) {
	if m.frame == nil {
		return stepSkipped, "no metadata", nil
	}
	if m.frame.has(colAvgSentiment) {
		return stepSkipped, "sentiment columns already present", nil
	}

	path := m.path(FileSentiment)
	if !fileExists(path) {
		return stepSkipped, FileSentiment + " not found", nil
	}

	sent, _, err := readFrame(path)
	if err != nil {
		return stepSkipped, FileSentiment, err
	}

	added, err := m.frame.leftJoin(sent, colProductID)
	if err != nil {
		return stepSkipped, FileSentiment, fmt.Errorf("joining sentiment: %w", err)
	}

	return stepApplied, fmt.Sprintf("added columns %v", added), nil
}

// mergeLinks joins image and product links from the raw dataset when the
// metadata lacks them. The raw dataset is de-duplicated by product id with the
// first occurrence winning.
func mergeLinks(m *metadataMerge) (stepOutcome, string, error) {
	if m.frame == nil {
		return stepSkipped, "no metadata", nil
	}
	if m.frame.has(colImgLink) {
		return stepSkipped, "link columns already present", nil
	}

	path := m.path(FileRawDataset)
	if !fileExists(path) {
		return stepSkipped, FileRawDataset + " not found", nil
	}

	links, _, err := readFrame(path, colProductID, colProductLink, colImgLink)
	if err != nil {
		return stepSkipped, FileRawDataset, err
	}

	added, err := m.frame.leftJoin(links, colProductID)
	if err != nil {
		return stepSkipped, FileRawDataset, fmt.Errorf("joining links: %w", err)
	}

	return stepApplied, fmt.Sprintf("added columns %v", added), nil
}

// normaliseRating populates rating from avg_rating when only the latter exists.
func normaliseRating(m *metadataMerge) (stepOutcome, string, error) {
	if m.frame == nil {
		return stepSkipped, "no metadata", nil
	}
	if m.frame.has(colRating) || !m.frame.has(colAvgRating) {
		return stepSkipped, "rating already canonical", nil
	}

	m.frame.addColumn(colRating, func(row []string) string {
		return m.frame.cell(row, colAvgRating)
	})

	return stepApplied, "rating copied from avg_rating", nil
}

// fillDefaults adds every missing schema column and fills missing cells.
func fillDefaults(m *metadataMerge) (stepOutcome, string, error) {
	if m.frame == nil {
		return stepSkipped, "no metadata", nil
	}

	var created []string
	for _, d := range schemaDefaults {
		if !m.frame.has(d.column) {
			value := d.value
			m.frame.addColumn(d.column, func([]string) string { return value })
			created = append(created, d.column)

			continue
		}

		m.frame.fillNA(d.column, d.value)
	}

	return stepApplied, fmt.Sprintf("created columns %v", created), nil
}

// schemaColumns is the set of columns mapped onto ProductRecord fields.
var schemaColumns = func() map[string]struct{} {
	out := map[string]struct{}{colProductID: {}}
	for _, d := range schemaDefaults {
		out[d.column] = struct{}{}
	}

	return out
}()

// catalogIndex holds the indexes derived from the merged metadata.
type catalogIndex struct {
	records map[string]*models.ProductRecord
	ids     []string
	entries []models.CatalogEntry
	invalid int
}

// buildCatalog converts the merged frame into typed records. The ordered id
// list keeps one entry per row so it stays aligned with the feature matrix;
// rows without an id are excluded from the catalog itself. A repeated id keeps
// its last row.
func buildCatalog(f *frame, log *logrus.Logger) catalogIndex {
	idx := catalogIndex{records: make(map[string]*models.ProductRecord)}
	if f == nil {
		return idx
	}

	idx.ids = make([]string, 0, len(f.rows))
	idx.entries = make([]models.CatalogEntry, 0, len(f.rows))

	duplicates := 0
	for _, row := range f.rows {
		id := f.cell(row, colProductID)
		idx.ids = append(idx.ids, id)

		if isNA(id) {
			idx.invalid++
			continue
		}

		rec, bad := recordFromRow(f, row)
		idx.invalid += bad

		if _, seen := idx.records[id]; seen {
			duplicates++
		}
		idx.records[id] = rec
		idx.entries = append(idx.entries, models.CatalogEntry{ProductID: id, ProductName: rec.ProductName})
	}

	if duplicates > 0 || idx.invalid > 0 {
		log.WithFields(logrus.Fields{
			"duplicate_ids": duplicates,
			"invalid_cells": idx.invalid,
		}).Warn("metadata contained rows that needed repair")
	}

	return idx
}

// recordFromRow maps a merged row onto a ProductRecord. Numeric cells that do
// not parse fall back to the column default; the count of such cells is returned.
func recordFromRow(f *frame, row []string) (*models.ProductRecord, int) {
	bad := 0
	num := func(col string) float64 {
		v, ok := models.ParseNumber(f.cell(row, col))
		if !ok {
			bad++
			return 0
		}
		return v
	}

	rec := &models.ProductRecord{
		ProductID:         f.cell(row, colProductID),
		ProductName:       f.cell(row, colProductName),
		Category:          f.cell(row, colCategory),
		Rating:            num(colRating),
		AvgRating:         num(colAvgRating),
		DiscountedPrice:   num(colDiscountedPrice),
		ImgLink:           f.cell(row, colImgLink),
		ProductLink:       f.cell(row, colProductLink),
		AvgSentiment:      num(colAvgSentiment),
		PercentPositive:   num(colPercentPositive),
		PercentNegative:   num(colPercentNegative),
		AggregatedReviews: f.cell(row, colAggregatedReviews),
	}

	for i, col := range f.columns {
		if _, known := schemaColumns[col]; known || col == "" {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		if i < len(row) {
			rec.Extra[col] = row[i]
		}
	}

	return rec, bad
}
