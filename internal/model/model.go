// Package model wraps predictive models behind a uniform interface the
// importance engine can perturb: a prediction function over rows, the set
// of known target classes, and a registry of scorers with declared
// monotonicity.
package model

// Model is the black-box predictor the importance engine explains.
//
// Predict must return one prediction vector per input row, aligned
// positionally with the rows it was given. For regressors the vector has a
// single element; for probabilistic classifiers it holds one probability
// per target class.
type Model interface {
	Predict(rows [][]float64) ([][]float64, error)
	TargetNames() []string
	Scorers() *ScorerSet
}

// Kind classifies the model's output shape, which determines the default
// scorer.
type Kind int

const (
	// KindRegressor predicts a single continuous value per row.
	KindRegressor Kind = iota
	// KindClassifier predicts a class code per row.
	KindClassifier
	// KindProbabilisticClassifier predicts a probability per class per row.
	KindProbabilisticClassifier
)

func (k Kind) String() string {
	switch k {
	case KindRegressor:
		return "regressor"
	case KindClassifier:
		return "classifier"
	case KindProbabilisticClassifier:
		return "probabilistic-classifier"
	default:
		return "unknown"
	}
}
