package importance

import (
	"fmt"
	"math/rand"

	"featimp/internal/dataset"
	"featimp/internal/model"
)

// computeFeatureImportance is the per-feature trial: draw replacement
// values for one column, re-score the perturbed copy, and reduce the
// prediction movement to a scalar. It never mutates the shared baseline
// dataset or predictions, so trials may run concurrently in any order.
func computeFeatureImportance(m model.Model, inputs *dataset.Dataset, baselinePreds [][]float64, feature dataset.Feature, labels []float64, method Method, scaled bool, scorer *model.Scorer, rng *rand.Rand) (float64, error) {
	originalValues, err := inputs.Column(feature.ID)
	if err != nil {
		return 0, err
	}

	strategy := dataset.StrategyRandomChoice
	if feature.Numeric {
		strategy = dataset.StrategySimilarityRanks
	}

	samples, err := inputs.SampleColumn(feature.ID, inputs.NRows(), strategy, rng)
	if err != nil {
		return 0, fmt.Errorf("sampling feature %q: %w", feature.ID, err)
	}

	perturbed, err := inputs.WithColumn(feature.ID, samples)
	if err != nil {
		return 0, fmt.Errorf("perturbing feature %q: %w", feature.ID, err)
	}

	perturbedPreds, err := m.Predict(perturbed.Rows())
	if err != nil {
		return 0, fmt.Errorf("predicting with perturbed feature %q: %w", feature.ID, err)
	}

	v, err := estimate(perturbedPreds, baselinePreds, originalValues, samples, labels, method, scaled, scorer)
	if err != nil {
		return 0, fmt.Errorf("estimating feature %q: %w", feature.ID, err)
	}
	return v, nil
}
