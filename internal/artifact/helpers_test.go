package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio/npz"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// dense is a small helper describing matrix rows for writeMatrix.
type dense [][]float64

// writeMatrix stores rows as a scipy-style CSR archive.
func writeMatrix(t *testing.T, dir string, rows dense, cols int) {
	t.Helper()
	writeMatrixFormat(t, dir, rows, cols, "")
}

// writeMatrixFormat is writeMatrix with a format entry; an empty format omits it.
func writeMatrixFormat(t *testing.T, dir string, rows dense, cols int, format string) {
	t.Helper()

	indptr := []int32{0}
	var indices []int32
	var data []float64
	for _, row := range rows {
		for c, v := range row {
			if v != 0 {
				indices = append(indices, int32(c))
				data = append(data, v)
			}
		}
		indptr = append(indptr, int32(len(data)))
	}
	if indices == nil {
		indices = []int32{}
		data = []float64{}
	}

	fh, err := os.Create(filepath.Join(dir, FileMatrix))
	if err != nil {
		t.Fatalf("creating matrix: %v", err)
	}
	defer fh.Close()

	w := npz.NewWriter(fh)
	arrays := []struct {
		name string
		v    any
	}{
		{"indices.npy", indices},
		{"indptr.npy", indptr},
		{"shape.npy", []int64{int64(len(rows)), int64(cols)}},
		{"data.npy", data},
	}
	if format != "" {
		arrays = append(arrays, struct {
			name string
			v    any
		}{"format.npy", format})
	}
	for _, a := range arrays {
		if err := w.Write(a.name, a.v); err != nil {
			t.Fatalf("writing %s: %v", a.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing npz: %v", err)
	}
}

const baseMetadata = `product_id,product_name,category,rating,discounted_price,avg_sentiment,percent_positive,percent_negative,img_link,product_link,aggregated_reviews
P1,Red Shoes,Footwear,4.5,999,0.3,80,5,http://img/p1,http://p/p1,great ||| comfy
P2,Blue Shoes,Footwear,4.1,"1,299",0.1,60,10,http://img/p2,http://p/p2,ok
P3,Red Hat,Accessories,3.9,499,-0.2,20,50,http://img/p3,http://p/p3,
`
