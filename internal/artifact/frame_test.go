package artifact

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadFrame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "\ufeffproduct_id, name ,extra\nP1,One,x\nP2,Two\n")

	f, skipped, err := readFrame(filepath.Join(dir, "a.csv"))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if !reflect.DeepEqual(f.columns, []string{"product_id", "name", "extra"}) {
		t.Errorf("columns = %v", f.columns)
	}
	if got := f.cell(f.rows[1], "extra"); got != "" {
		t.Errorf("short row padded cell = %q, want empty", got)
	}
}

func TestReadFrame_UseCols(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "a,b,c\n1,2,3\n")

	f, _, err := readFrame(filepath.Join(dir, "a.csv"), "c", "a")
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !reflect.DeepEqual(f.rows[0], []string{"3", "1"}) {
		t.Errorf("row = %v, want [3 1]", f.rows[0])
	}

	if _, _, err := readFrame(filepath.Join(dir, "a.csv"), "missing"); err == nil {
		t.Error("expected error for missing column")
	}
	if _, _, err := readFrame(filepath.Join(dir, "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}

	writeFile(t, dir, "empty.csv", "")
	if _, _, err := readFrame(filepath.Join(dir, "empty.csv")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestIsNA(t *testing.T) {
	for _, s := range []string{"", "  ", "nan", "NaN", "None", "null", "N/A"} {
		if !isNA(s) {
			t.Errorf("isNA(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "Unknown", "nano"} {
		if isNA(s) {
			t.Errorf("isNA(%q) = true, want false", s)
		}
	}
}

func TestLeftJoin(t *testing.T) {
	left := newFrame([]string{"product_id", "name"})
	left.rows = [][]string{{"P1", "One"}, {"P2", "Two"}, {"P1", "Again"}}

	right := newFrame([]string{"product_id", "name", "score"})
	right.rows = [][]string{{"P1", "Other", "1"}, {"P1", "Dup", "2"}}

	added, err := left.leftJoin(right, "product_id")
	if err != nil {
		t.Fatalf("leftJoin: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"score"}) {
		t.Errorf("added = %v, want [score]", added)
	}
	if len(left.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(left.rows))
	}

	want := []string{"1", "", "1"}
	for i, row := range left.rows {
		if got := left.cell(row, "score"); got != want[i] {
			t.Errorf("row %d score = %q, want %q", i, got, want[i])
		}
	}
	if got := left.cell(left.rows[0], "name"); got != "One" {
		t.Errorf("existing column overwritten: %q", got)
	}

	if _, err := left.leftJoin(newFrame([]string{"x"}), "product_id"); err == nil {
		t.Error("expected error when right side lacks key")
	}
}

func TestRunMetadataPipeline_Reports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileMetadata, "product_id,avg_rating\nP1,4\n")

	f, source, reports := runMetadataPipeline(dir, testLogger())
	if f == nil {
		t.Fatal("expected merged frame")
	}
	if source != FileMetadata {
		t.Errorf("source = %q, want %q", source, FileMetadata)
	}

	want := map[string]stepOutcome{
		"base":      stepApplied,
		"sentiment": stepSkipped,
		"links":     stepSkipped,
		"rating":    stepApplied,
		"defaults":  stepApplied,
	}
	if len(reports) != len(want) {
		t.Fatalf("reports = %d, want %d", len(reports), len(want))
	}
	for _, r := range reports {
		if r.Err != nil {
			t.Errorf("step %s failed: %v", r.Step, r.Err)
		}
		if r.Outcome != want[r.Step] {
			t.Errorf("step %s = %s, want %s", r.Step, r.Outcome, want[r.Step])
		}
	}
}

func TestRunMetadataPipeline_BaseWithoutID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileMetadata, "name\nOne\n")

	f, _, reports := runMetadataPipeline(dir, testLogger())
	if f != nil {
		t.Error("expected no frame when metadata lacks product_id")
	}
	if reports[0].Err == nil {
		t.Error("expected base step error")
	}
}
