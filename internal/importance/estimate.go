package importance

import (
	"fmt"
	"math"

	"featimp/internal/model"
)

// Method selects how a feature's importance is scored.
type Method string

const (
	// MethodOutputVariance scores a feature by the mean absolute change in
	// predictions under perturbation. Requires no ground truth.
	MethodOutputVariance Method = "output-variance"

	// MethodConditionalPermutation scores a feature by how much a labeled
	// accuracy or loss metric degrades under perturbation. Requires
	// training labels and a scorer with a declared direction.
	MethodConditionalPermutation Method = "conditional-permutation"
)

// estimate computes one feature's scalar importance from the baseline and
// perturbed predictions. Unrecognized methods fail here, naming the valid
// choices.
func estimate(perturbedPreds, originalPreds [][]float64, originalX, perturbedX, labels []float64, method Method, scaled bool, scorer *model.Scorer) (float64, error) {
	switch method {
	case MethodOutputVariance:
		return outputVariance(perturbedPreds, originalPreds, originalX, perturbedX, scaled)
	case MethodConditionalPermutation:
		return conditionalPermutation(perturbedPreds, originalPreds, labels, originalX, perturbedX, scorer, scaled)
	default:
		return 0, validationErrorf("unrecognized importance method %q (valid: %q, %q)",
			method, MethodOutputVariance, MethodConditionalPermutation)
	}
}

// outputVariance is the mean absolute difference between perturbed and
// original predictions. Multi-class differences are taken elementwise;
// with scaling enabled each row's differences are summed across classes
// and weighted by the row's perturbation strength before averaging.
func outputVariance(perturbedPreds, originalPreds [][]float64, originalX, perturbedX []float64, scaled bool) (float64, error) {
	if len(perturbedPreds) != len(originalPreds) {
		return 0, fmt.Errorf("importance: %d perturbed predictions vs %d original", len(perturbedPreds), len(originalPreds))
	}

	if scaled {
		scales := scaleWeights(originalX, perturbedX)
		var sum float64
		for i := range perturbedPreds {
			var rowSum float64
			for c := range perturbedPreds[i] {
				rowSum += math.Abs(perturbedPreds[i][c] - originalPreds[i][c])
			}
			sum += rowSum * scales[i]
		}
		return sum / float64(len(perturbedPreds)), nil
	}

	var sum float64
	var n int
	for i := range perturbedPreds {
		for c := range perturbedPreds[i] {
			sum += math.Abs(perturbedPreds[i][c] - originalPreds[i][c])
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("importance: empty prediction vectors")
	}
	return sum / float64(n), nil
}

// conditionalPermutation measures how much worse the model scores once the
// feature is perturbed: direction * (score before - score after), clamped
// at zero so a perturbation that happens to improve the score contributes
// no importance rather than a negative one.
func conditionalPermutation(perturbedPreds, originalPreds [][]float64, labels, originalX, perturbedX []float64, scorer *model.Scorer, scaled bool) (float64, error) {
	if scorer == nil {
		return 0, configErrorf("conditional-permutation requires a scorer with a declared direction")
	}

	var weights []float64
	if scaled {
		weights = scaleWeights(originalX, perturbedX)
	}

	after, err := scorer.Score(labels, perturbedPreds, weights)
	if err != nil {
		return 0, fmt.Errorf("importance: scoring perturbed predictions: %w", err)
	}
	before, err := scorer.Score(labels, originalPreds, weights)
	if err != nil {
		return 0, fmt.Errorf("importance: scoring baseline predictions: %w", err)
	}

	direction := 1.0
	if scorer.Type == model.Decreasing {
		direction = -1.0
	}

	v := (before - after) * direction
	if v < 0 {
		v = 0
	}
	return v, nil
}
