package artifact

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// naValues are cell spellings treated as missing, in addition to the empty string.
var naValues = map[string]struct{}{
	"nan": {}, "NaN": {}, "NAN": {}, "NA": {}, "N/A": {}, "n/a": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {},
}

// isNA reports whether a cell holds no value.
func isNA(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}

	_, ok := naValues[s]

	return ok
}

// frame is an in-memory CSV table with string cells and named columns.
type frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// newFrame creates an empty frame with the given columns.
func newFrame(columns []string) *frame {
	f := &frame{columns: append([]string(nil), columns...), index: make(map[string]int, len(columns))}
	for i, c := range f.columns {
		if _, dup := f.index[c]; !dup {
			f.index[c] = i
		}
	}

	return f
}

// readFrame reads a CSV snapshot with a header row. When usecols is non-empty
// only those columns are kept, and each must be present. Rows that fail to
// parse are skipped and counted.
func readFrame(path string, usecols ...string) (*frame, int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer fh.Close()

	r := csv.NewReader(bufio.NewReaderSize(fh, 1<<20))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%s: empty file", path)
		}
		return nil, 0, fmt.Errorf("%s: reading header: %w", path, err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	src := newFrame(header)

	keep := make([]int, 0, len(usecols))
	for _, c := range usecols {
		i, ok := src.index[c]
		if !ok {
			return nil, 0, fmt.Errorf("%s: missing column %q", path, c)
		}
		keep = append(keep, i)
	}

	out := src
	if len(usecols) > 0 {
		out = newFrame(usecols)
	}

	skipped := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("%s: %w", path, err)
		}

		row := make([]string, len(src.columns))
		copy(row, rec)

		if len(usecols) > 0 {
			projected := make([]string, len(keep))
			for j, i := range keep {
				projected[j] = row[i]
			}
			row = projected
		}

		out.rows = append(out.rows, row)
	}

	return out, skipped, nil
}

// has reports whether the frame carries the named column.
func (f *frame) has(col string) bool {
	_, ok := f.index[col]

	return ok
}

// cell returns the value of col in row, or "" when the column is absent.
func (f *frame) cell(row []string, col string) string {
	i, ok := f.index[col]
	if !ok || i >= len(row) {
		return ""
	}

	return row[i]
}

// addColumn appends a column, computing each row's value with fn.
func (f *frame) addColumn(name string, fn func(row []string) string) {
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)

	for i, row := range f.rows {
		f.rows[i] = append(row, fn(row))
	}
}

// fillNA replaces missing cells of col with value.
func (f *frame) fillNA(col, value string) {
	i, ok := f.index[col]
	if !ok {
		return
	}

	for _, row := range f.rows {
		if isNA(row[i]) {
			row[i] = value
		}
	}
}

// leftJoin adds the columns of right that f does not already have, matching
// rows on key. When right repeats a key the first occurrence wins, so the row
// count of f never changes. Unmatched rows get empty cells.
func (f *frame) leftJoin(right *frame, key string) ([]string, error) {
	if !f.has(key) {
		return nil, fmt.Errorf("left side has no %q column", key)
	}
	if !right.has(key) {
		return nil, fmt.Errorf("right side has no %q column", key)
	}

	lookup := make(map[string][]string, len(right.rows))
	for _, row := range right.rows {
		k := right.cell(row, key)
		if _, seen := lookup[k]; !seen {
			lookup[k] = row
		}
	}

	var added []string
	for _, col := range right.columns {
		if col == key || f.has(col) {
			continue
		}

		f.addColumn(col, func(row []string) string {
			match, ok := lookup[f.cell(row, key)]
			if !ok {
				return ""
			}
			return right.cell(match, col)
		})
		added = append(added, col)
	}

	return added, nil
}
