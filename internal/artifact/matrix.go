package artifact

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// CSRMatrix is a compressed sparse row matrix as written by scipy.sparse.save_npz.
type CSRMatrix struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float64

	norms []float64
}

// NNZ returns the number of stored values.
func (m *CSRMatrix) NNZ() int {
	return len(m.Data)
}

// row returns the column indices and values of row i.
func (m *CSRMatrix) row(i int) ([]int, []float64) {
	lo, hi := m.Indptr[i], m.Indptr[i+1]

	return m.Indices[lo:hi], m.Data[lo:hi]
}

// validate checks the structural consistency of the CSR arrays.
func (m *CSRMatrix) validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("negative shape %dx%d", m.Rows, m.Cols)
	}
	if len(m.Indptr) != m.Rows+1 {
		return fmt.Errorf("indptr has %d entries, want %d", len(m.Indptr), m.Rows+1)
	}
	if len(m.Indices) != len(m.Data) {
		return fmt.Errorf("indices (%d) and data (%d) lengths differ", len(m.Indices), len(m.Data))
	}
	if m.Indptr[0] != 0 || m.Indptr[m.Rows] != len(m.Data) {
		return errors.New("indptr bounds do not cover data")
	}

	for i := 0; i < m.Rows; i++ {
		if m.Indptr[i] > m.Indptr[i+1] {
			return fmt.Errorf("indptr decreases at row %d", i)
		}
	}
	for _, c := range m.Indices {
		if c < 0 || c >= m.Cols {
			return fmt.Errorf("column index %d out of range", c)
		}
	}

	return nil
}

// computeNorms caches the L2 norm of every row.
func (m *CSRMatrix) computeNorms() {
	m.norms = make([]float64, m.Rows)
	for i := range m.norms {
		_, vals := m.row(i)
		var sum float64
		for _, v := range vals {
			sum += v * v
		}
		m.norms[i] = math.Sqrt(sum)
	}
}

// LoadCSR reads a CSR matrix from a .npz archive produced by scipy.sparse.save_npz.
func LoadCSR(path string) (*CSRMatrix, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	keys := make(map[string]string, len(r.Keys()))
	for _, k := range r.Keys() {
		keys[k] = k
		keys[strings.TrimSuffix(k, ".npy")] = k
	}

	lookup := func(name string) (string, error) {
		k, ok := keys[name]
		if !ok {
			return "", fmt.Errorf("%s: missing array %q", path, name)
		}
		return k, nil
	}

	if err := checkSparseFormat(r, keys); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m := &CSRMatrix{}

	shape, err := readInts(r, lookup, "shape")
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("%s: shape has %d dimensions, want 2", path, len(shape))
	}
	m.Rows, m.Cols = shape[0], shape[1]

	if m.Indptr, err = readInts(r, lookup, "indptr"); err != nil {
		return nil, err
	}
	if m.Indices, err = readInts(r, lookup, "indices"); err != nil {
		return nil, err
	}
	if m.Data, err = readFloats(r, lookup, "data"); err != nil {
		return nil, err
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.computeNorms()

	return m, nil
}

// checkSparseFormat rejects archives whose recorded layout is not CSR. A CSC
// archive has the same arrays and would otherwise load as its transpose.
// Archives without a format entry are taken as CSR.
func checkSparseFormat(r *npz.Reader, keys map[string]string) error {
	key, ok := keys["format"]
	if !ok {
		return nil
	}

	var format string
	if err := r.Read(key, &format); err != nil {
		return fmt.Errorf("reading format: %w", err)
	}

	format = strings.TrimSpace(strings.ReplaceAll(format, "\x00", ""))
	if format != "csr" {
		return fmt.Errorf("sparse format %q, want csr", format)
	}

	return nil
}

// readInts reads an integer array stored as int32 or int64.
func readInts(r *npz.Reader, lookup func(string) (string, error), name string) ([]int, error) {
	key, err := lookup(name)
	if err != nil {
		return nil, err
	}

	var i32 []int32
	if err := r.Read(key, &i32); err == nil {
		out := make([]int, len(i32))
		for i, v := range i32 {
			out[i] = int(v)
		}
		return out, nil
	}

	var i64 []int64
	if err := r.Read(key, &i64); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	out := make([]int, len(i64))
	for i, v := range i64 {
		out[i] = int(v)
	}

	return out, nil
}

// readFloats reads a value array stored as float64 or float32.
func readFloats(r *npz.Reader, lookup func(string) (string, error), name string) ([]float64, error) {
	key, err := lookup(name)
	if err != nil {
		return nil, err
	}

	var f64 []float64
	if err := r.Read(key, &f64); err == nil {
		return f64, nil
	}

	var f32 []float32
	if err := r.Read(key, &f32); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	out := make([]float64, len(f32))
	for i, v := range f32 {
		out[i] = float64(v)
	}

	return out, nil
}
