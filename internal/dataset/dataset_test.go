package dataset

import (
	"math/rand"
	"testing"
)

func testFeatures() []Feature {
	return []Feature{
		{ID: "age", Numeric: true},
		{ID: "income", Numeric: true},
		{ID: "segment", Numeric: false},
	}
}

func testRows() [][]float64 {
	return [][]float64{
		{25, 40000, 0},
		{32, 52000, 1},
		{47, 61000, 0},
		{51, 83000, 2},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if ds.NRows() != 4 {
		t.Errorf("Expected 4 rows, got %d", ds.NRows())
	}
	if len(ds.Features()) != 3 {
		t.Errorf("Expected 3 features, got %d", len(ds.Features()))
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, testRows()); err == nil {
		t.Error("Expected error for empty feature set")
	}

	dup := []Feature{{ID: "a", Numeric: true}, {ID: "a", Numeric: false}}
	if _, err := New(dup, [][]float64{{1, 2}}); err == nil {
		t.Error("Expected error for duplicate feature ids")
	}

	ragged := [][]float64{{1, 2, 3}, {1, 2}}
	if _, err := New(testFeatures(), ragged); err == nil {
		t.Error("Expected error for ragged rows")
	}

	empty := []Feature{{ID: "", Numeric: true}}
	if _, err := New(empty, nil); err == nil {
		t.Error("Expected error for empty feature id")
	}
}

func TestColumn(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	col, err := ds.Column("income")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	want := []float64{40000, 52000, 61000, 83000}
	for i, v := range want {
		if col[i] != v {
			t.Errorf("Column[%d] = %v, want %v", i, col[i], v)
		}
	}

	if _, err := ds.Column("nope"); err == nil {
		t.Error("Expected error for unknown feature")
	}
}

func TestWithColumn(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	replacement := []float64{1, 2, 3, 4}
	perturbed, err := ds.WithColumn("age", replacement)
	if err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}

	// Row count and order preserved by construction.
	if perturbed.NRows() != ds.NRows() {
		t.Errorf("Row count changed: %d vs %d", perturbed.NRows(), ds.NRows())
	}
	col, _ := perturbed.Column("age")
	for i, v := range replacement {
		if col[i] != v {
			t.Errorf("Perturbed age[%d] = %v, want %v", i, col[i], v)
		}
	}

	// Untouched columns are identical.
	income, _ := perturbed.Column("income")
	origIncome, _ := ds.Column("income")
	for i := range income {
		if income[i] != origIncome[i] {
			t.Errorf("Income[%d] changed: %v vs %v", i, income[i], origIncome[i])
		}
	}

	// The receiver is never mutated.
	origAge, _ := ds.Column("age")
	if origAge[0] != 25 {
		t.Errorf("Original dataset mutated: age[0] = %v", origAge[0])
	}

	if _, err := ds.WithColumn("age", []float64{1}); err == nil {
		t.Error("Expected error for wrong replacement length")
	}
	if _, err := ds.WithColumn("nope", replacement); err == nil {
		t.Error("Expected error for unknown feature")
	}
}

func TestSampleRows(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := rand.New(rand.NewSource(7))

	sub, picked, err := ds.SampleRows(2, rng)
	if err != nil {
		t.Fatalf("SampleRows failed: %v", err)
	}
	if sub.NRows() != 2 {
		t.Errorf("Expected 2 rows, got %d", sub.NRows())
	}
	if len(picked) != 2 {
		t.Errorf("Expected 2 picked indices, got %d", len(picked))
	}
	seen := make(map[int]bool)
	for _, p := range picked {
		if p < 0 || p >= ds.NRows() {
			t.Errorf("Picked index %d out of range", p)
		}
		if seen[p] {
			t.Errorf("Index %d picked twice, sampling must be without replacement", p)
		}
		seen[p] = true
	}

	// Requesting at least the full size returns the dataset itself.
	full, picked, err := ds.SampleRows(10, rng)
	if err != nil {
		t.Fatalf("SampleRows failed: %v", err)
	}
	if full != ds || picked != nil {
		t.Error("Expected the dataset itself for an oversized sample")
	}

	if _, _, err := ds.SampleRows(0, rng); err == nil {
		t.Error("Expected error for non-positive sample size")
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ds.SetLevels("segment", []string{"retail", "smb", "enterprise"})
	levels := ds.Levels("segment")
	if len(levels) != 3 || levels[1] != "smb" {
		t.Errorf("Unexpected levels: %v", levels)
	}
	if ds.Levels("age") != nil {
		t.Error("Numeric feature should have no levels")
	}
}
