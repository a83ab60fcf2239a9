package model

import (
	"fmt"
	"math"
)

// Monotonicity declares whether a scorer is better when higher or lower.
type Monotonicity int

const (
	// Increasing scorers improve as they grow (accuracy).
	Increasing Monotonicity = iota
	// Decreasing scorers improve as they shrink (loss, error).
	Decreasing
)

func (m Monotonicity) String() string {
	if m == Increasing {
		return "increasing"
	}
	return "decreasing"
}

// ScoreFunc evaluates predictions against ground-truth labels. weights may
// be nil; when present it holds one non-negative weight per row.
type ScoreFunc func(labels []float64, predictions [][]float64, weights []float64) (float64, error)

// Scorer is a named scoring function with a declared monotonicity
// direction.
type Scorer struct {
	Name  string
	Type  Monotonicity
	Score ScoreFunc
}

// ScorerSet is a registry of scorers with a designated default.
type ScorerSet struct {
	def     string
	byName  map[string]*Scorer
	ordered []string
}

// Get returns a scorer by name.
func (s *ScorerSet) Get(name string) (*Scorer, error) {
	sc, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("model: unknown scorer %q (valid: %v)", name, s.ordered)
	}
	return sc, nil
}

// Default returns the registry's default scorer.
func (s *ScorerSet) Default() *Scorer {
	return s.byName[s.def]
}

// Names lists the registered scorer names.
func (s *ScorerSet) Names() []string {
	return append([]string(nil), s.ordered...)
}

// DefaultScorers builds the scorer registry for a model kind. Regressors
// default to mean absolute error, classifiers to accuracy, probabilistic
// classifiers to log loss.
func DefaultScorers(kind Kind) *ScorerSet {
	s := &ScorerSet{byName: make(map[string]*Scorer)}
	add := func(sc *Scorer) {
		s.byName[sc.Name] = sc
		s.ordered = append(s.ordered, sc.Name)
	}

	add(&Scorer{Name: "accuracy", Type: Increasing, Score: Accuracy})
	add(&Scorer{Name: "mean-absolute-error", Type: Decreasing, Score: MeanAbsoluteError})
	add(&Scorer{Name: "log-loss", Type: Decreasing, Score: LogLoss})

	switch kind {
	case KindProbabilisticClassifier:
		s.def = "log-loss"
	case KindClassifier:
		s.def = "accuracy"
	default:
		s.def = "mean-absolute-error"
	}
	return s
}

func checkScoreInputs(labels []float64, predictions [][]float64, weights []float64) error {
	if len(labels) == 0 {
		return fmt.Errorf("model: scorer requires labels")
	}
	if len(predictions) != len(labels) {
		return fmt.Errorf("model: %d predictions for %d labels", len(predictions), len(labels))
	}
	if weights != nil && len(weights) != len(labels) {
		return fmt.Errorf("model: %d weights for %d labels", len(weights), len(labels))
	}
	return nil
}

// predictedClass maps one prediction vector to a class code: the argmax
// for per-class vectors, the rounded value for scalar outputs.
func predictedClass(pred []float64) float64 {
	if len(pred) == 1 {
		return math.Round(pred[0])
	}
	best := 0
	for i := 1; i < len(pred); i++ {
		if pred[i] > pred[best] {
			best = i
		}
	}
	return float64(best)
}

// Accuracy is the weighted fraction of rows whose predicted class matches
// the label. Monotonicity: increasing.
func Accuracy(labels []float64, predictions [][]float64, weights []float64) (float64, error) {
	if err := checkScoreInputs(labels, predictions, weights); err != nil {
		return 0, err
	}
	var correct, total float64
	for i, pred := range predictions {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		total += w
		if predictedClass(pred) == labels[i] {
			correct += w
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("model: accuracy weights sum to zero")
	}
	return correct / total, nil
}

// MeanAbsoluteError is the weighted mean absolute difference between the
// scalar prediction and the label. Monotonicity: decreasing.
func MeanAbsoluteError(labels []float64, predictions [][]float64, weights []float64) (float64, error) {
	if err := checkScoreInputs(labels, predictions, weights); err != nil {
		return 0, err
	}
	var sum, total float64
	for i, pred := range predictions {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		total += w
		sum += w * math.Abs(pred[0]-labels[i])
	}
	if total == 0 {
		return 0, fmt.Errorf("model: MAE weights sum to zero")
	}
	return sum / total, nil
}

// logLossEps keeps probabilities away from 0 and 1 so the loss stays
// finite, matching the usual sklearn clipping.
const logLossEps = 1e-15

// LogLoss is the weighted negative log likelihood of the true class under
// the predicted probabilities. Labels are class codes indexing the
// prediction vector; scalar predictions are treated as the probability of
// class 1. Monotonicity: decreasing.
func LogLoss(labels []float64, predictions [][]float64, weights []float64) (float64, error) {
	if err := checkScoreInputs(labels, predictions, weights); err != nil {
		return 0, err
	}
	var sum, total float64
	for i, pred := range predictions {
		var p float64
		switch {
		case len(pred) == 1:
			p = pred[0]
			if labels[i] == 0 {
				p = 1 - p
			}
		default:
			class := int(labels[i])
			if class < 0 || class >= len(pred) {
				return 0, fmt.Errorf("model: label %v out of range for %d-class predictions", labels[i], len(pred))
			}
			p = pred[class]
		}
		p = math.Min(math.Max(p, logLossEps), 1-logLossEps)

		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		total += w
		sum += -w * math.Log(p)
	}
	if total == 0 {
		return 0, fmt.Errorf("model: log-loss weights sum to zero")
	}
	return sum / total, nil
}
