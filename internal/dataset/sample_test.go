package dataset

import (
	"math/rand"
	"testing"
)

func TestSampleColumn_RandomChoice(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := rand.New(rand.NewSource(42))

	samples, err := ds.SampleColumn("segment", 100, StrategyRandomChoice, rng)
	if err != nil {
		t.Fatalf("SampleColumn failed: %v", err)
	}
	if len(samples) != 100 {
		t.Fatalf("Expected 100 samples, got %d", len(samples))
	}

	observed := map[float64]bool{0: true, 1: true, 2: true}
	for i, s := range samples {
		if !observed[s] {
			t.Errorf("Sample %d = %v is not an observed category", i, s)
		}
	}
}

func TestSampleColumn_SimilarityRanks(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := rand.New(rand.NewSource(42))

	samples, err := ds.SampleColumn("income", 200, StrategySimilarityRanks, rng)
	if err != nil {
		t.Fatalf("SampleColumn failed: %v", err)
	}

	// Interpolation between order statistics never leaves the observed
	// range.
	for i, s := range samples {
		if s < 40000 || s > 83000 {
			t.Errorf("Sample %d = %v outside observed range [40000, 83000]", i, s)
		}
	}
}

func TestSampleColumn_Deterministic(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := ds.SampleColumn("income", 50, StrategySimilarityRanks, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("SampleColumn failed: %v", err)
	}
	b, err := ds.SampleColumn("income", 50, StrategySimilarityRanks, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("SampleColumn failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different samples at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSampleColumn_SingleValue(t *testing.T) {
	t.Parallel()

	features := []Feature{{ID: "x", Numeric: true}}
	ds, err := New(features, [][]float64{{7}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := rand.New(rand.NewSource(1))

	samples, err := ds.SampleColumn("x", 5, StrategySimilarityRanks, rng)
	if err != nil {
		t.Fatalf("SampleColumn failed: %v", err)
	}
	for _, s := range samples {
		if s != 7 {
			t.Errorf("Single-value column must sample itself, got %v", s)
		}
	}
}

func TestSampleColumn_Errors(t *testing.T) {
	t.Parallel()

	ds, err := New(testFeatures(), testRows())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rng := rand.New(rand.NewSource(1))

	if _, err := ds.SampleColumn("nope", 10, StrategyRandomChoice, rng); err == nil {
		t.Error("Expected error for unknown feature")
	}
	if _, err := ds.SampleColumn("age", 0, StrategyRandomChoice, rng); err == nil {
		t.Error("Expected error for non-positive count")
	}
	if _, err := ds.SampleColumn("age", 10, Strategy("bogus"), rng); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}
