package model

import "fmt"

// PredictFunc is a plain prediction function: one prediction vector per
// input row, positionally aligned.
type PredictFunc func(rows [][]float64) ([][]float64, error)

// InMemory wraps an in-process prediction function as a Model. It is the
// wrapper used for models living in the same process and the test vehicle
// for the importance engine.
type InMemory struct {
	fn      PredictFunc
	targets []string
	scorers *ScorerSet
}

// NewInMemory wraps fn as a model of the given kind. targets lists the
// known class names for classifiers; it may be empty for regressors.
func NewInMemory(fn PredictFunc, kind Kind, targets []string) (*InMemory, error) {
	if fn == nil {
		return nil, fmt.Errorf("model: prediction function is required")
	}
	return &InMemory{
		fn:      fn,
		targets: append([]string(nil), targets...),
		scorers: DefaultScorers(kind),
	}, nil
}

// Predict applies the wrapped function.
func (m *InMemory) Predict(rows [][]float64) ([][]float64, error) {
	preds, err := m.fn(rows)
	if err != nil {
		return nil, err
	}
	if len(preds) != len(rows) {
		return nil, fmt.Errorf("model: got %d predictions for %d rows", len(preds), len(rows))
	}
	return preds, nil
}

// TargetNames returns the known class names.
func (m *InMemory) TargetNames() []string {
	return append([]string(nil), m.targets...)
}

// Scorers returns the scorer registry for this model's kind.
func (m *InMemory) Scorers() *ScorerSet {
	return m.scorers
}
