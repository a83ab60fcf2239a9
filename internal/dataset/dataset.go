// Package dataset holds the in-memory tabular data the importance engine
// perturbs: ordered rows of float64 values plus per-column feature
// descriptors. Categorical columns are stored as encoded level codes, with
// the original string labels retained for reporting.
//
// All mutating operations return a modified copy with identical row count
// and row order, so prediction vectors produced from an input and from its
// perturbation are always positionally comparable.
package dataset

import (
	"fmt"
	"math/rand"
)

// Feature describes one column: its identifier and whether it is numeric.
// Numeric features are perturbed with similarity-rank sampling, categorical
// features with uniform random choice.
type Feature struct {
	ID      string
	Numeric bool
}

// Dataset is an ordered collection of rows over a fixed set of features.
type Dataset struct {
	features []Feature
	index    map[string]int
	rows     [][]float64
	levels   map[string][]string // categorical feature id -> level labels, by code
}

// New builds a dataset from feature descriptors and row data. Every row
// must have exactly one value per feature and feature ids must be unique.
func New(features []Feature, rows [][]float64) (*Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("dataset: at least one feature is required")
	}

	index := make(map[string]int, len(features))
	for i, f := range features {
		if f.ID == "" {
			return nil, fmt.Errorf("dataset: feature %d has an empty id", i)
		}
		if _, dup := index[f.ID]; dup {
			return nil, fmt.Errorf("dataset: duplicate feature id %q", f.ID)
		}
		index[f.ID] = i
	}

	for i, row := range rows {
		if len(row) != len(features) {
			return nil, fmt.Errorf("dataset: row %d has %d values, want %d", i, len(row), len(features))
		}
	}

	return &Dataset{
		features: append([]Feature(nil), features...),
		index:    index,
		rows:     rows,
		levels:   make(map[string][]string),
	}, nil
}

// NRows returns the number of rows.
func (d *Dataset) NRows() int {
	return len(d.rows)
}

// Features returns a copy of the feature descriptors in column order.
func (d *Dataset) Features() []Feature {
	return append([]Feature(nil), d.features...)
}

// FeatureIDs returns the feature identifiers in column order.
func (d *Dataset) FeatureIDs() []string {
	ids := make([]string, len(d.features))
	for i, f := range d.features {
		ids[i] = f.ID
	}
	return ids
}

// Feature returns the descriptor for the given id.
func (d *Dataset) Feature(id string) (Feature, bool) {
	i, ok := d.index[id]
	if !ok {
		return Feature{}, false
	}
	return d.features[i], true
}

// Rows exposes the underlying row data for prediction. Callers must treat
// the returned slices as read-only.
func (d *Dataset) Rows() [][]float64 {
	return d.rows
}

// Column returns a copy of the values for one feature, in row order.
func (d *Dataset) Column(id string) ([]float64, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown feature %q", id)
	}
	col := make([]float64, len(d.rows))
	for r, row := range d.rows {
		col[r] = row[i]
	}
	return col, nil
}

// WithColumn returns a copy of the dataset with one column replaced. The
// receiver is never modified, and the copy has the same row count and row
// order by construction.
func (d *Dataset) WithColumn(id string, values []float64) (*Dataset, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown feature %q", id)
	}
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("dataset: column %q replacement has %d values, want %d", id, len(values), len(d.rows))
	}

	rows := make([][]float64, len(d.rows))
	for r, row := range d.rows {
		cp := make([]float64, len(row))
		copy(cp, row)
		cp[i] = values[r]
		rows[r] = cp
	}

	return &Dataset{
		features: d.features,
		index:    d.index,
		rows:     rows,
		levels:   d.levels,
	}, nil
}

// SampleRows draws a uniform random subsample of n rows without
// replacement. It also returns the picked row indices so positionally
// aligned companions (label vectors) can be subsampled identically. If n
// is at least the row count the dataset itself is returned with nil
// indices.
func (d *Dataset) SampleRows(n int, rng *rand.Rand) (*Dataset, []int, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("dataset: sample size must be positive, got %d", n)
	}
	if n >= len(d.rows) {
		return d, nil, nil
	}

	picked := rng.Perm(len(d.rows))[:n]
	rows := make([][]float64, n)
	for i, r := range picked {
		rows[i] = d.rows[r]
	}

	return &Dataset{
		features: d.features,
		index:    d.index,
		rows:     rows,
		levels:   d.levels,
	}, picked, nil
}

// SetLevels records the label strings behind a categorical feature's codes.
func (d *Dataset) SetLevels(id string, labels []string) {
	d.levels[id] = labels
}

// Levels returns the label strings for a categorical feature, or nil for
// numeric features.
func (d *Dataset) Levels(id string) []string {
	return d.levels[id]
}
