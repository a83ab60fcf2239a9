package importance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featimp/internal/model"
)

func TestOutputVariance(t *testing.T) {
	t.Parallel()

	original := [][]float64{{1}, {2}, {3}}
	perturbed := [][]float64{{2}, {2}, {0}}

	v, err := outputVariance(perturbed, original, nil, nil, false)
	require.NoError(t, err)
	// Mean of |1|, |0|, |3|.
	assert.InDelta(t, 4.0/3.0, v, 1e-12)
}

func TestOutputVariance_MultiClass(t *testing.T) {
	t.Parallel()

	original := [][]float64{{0.6, 0.4}, {0.5, 0.5}}
	perturbed := [][]float64{{0.4, 0.6}, {0.5, 0.5}}

	v, err := outputVariance(perturbed, original, nil, nil, false)
	require.NoError(t, err)
	// Elementwise differences 0.2, 0.2, 0, 0 averaged over 4 elements.
	assert.InDelta(t, 0.1, v, 1e-12)
}

func TestOutputVariance_Scaled(t *testing.T) {
	t.Parallel()

	originalX := []float64{0, 10}
	perturbedX := []float64{10, 10} // scales 1 and 0
	original := [][]float64{{1}, {1}}
	perturbed := [][]float64{{3}, {5}}

	v, err := outputVariance(perturbed, original, originalX, perturbedX, true)
	require.NoError(t, err)
	// Row sums 2 and 4 weighted by 1 and 0, averaged over 2 rows.
	assert.InDelta(t, 1.0, v, 1e-12)
}

func TestOutputVariance_Mismatch(t *testing.T) {
	t.Parallel()

	_, err := outputVariance([][]float64{{1}}, [][]float64{{1}, {2}}, nil, nil, false)
	assert.Error(t, err)
}

func TestConditionalPermutation_Degradation(t *testing.T) {
	t.Parallel()

	labels := []float64{1, 2}
	original := [][]float64{{1}, {2}}  // perfect, MAE 0
	perturbed := [][]float64{{2}, {4}} // MAE 1.5

	scorer, err := model.DefaultScorers(model.KindRegressor).Get("mean-absolute-error")
	require.NoError(t, err)

	v, err := conditionalPermutation(perturbed, original, labels, nil, nil, scorer, false)
	require.NoError(t, err)
	// Decreasing scorer: degradation is the loss increase.
	assert.InDelta(t, 1.5, v, 1e-12)
}

func TestConditionalPermutation_ClampsImprovement(t *testing.T) {
	t.Parallel()

	labels := []float64{1, 2}
	original := [][]float64{{2}, {4}} // MAE 1.5
	perturbed := [][]float64{{1}, {2}} // perfect

	scorer, err := model.DefaultScorers(model.KindRegressor).Get("mean-absolute-error")
	require.NoError(t, err)

	// A perturbation that improves the score contributes zero importance,
	// never a negative one.
	v, err := conditionalPermutation(perturbed, original, labels, nil, nil, scorer, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestConditionalPermutation_IncreasingScorer(t *testing.T) {
	t.Parallel()

	labels := []float64{0, 1}
	original := [][]float64{{0}, {1}} // accuracy 1
	perturbed := [][]float64{{1}, {1}} // accuracy 0.5

	scorer, err := model.DefaultScorers(model.KindClassifier).Get("accuracy")
	require.NoError(t, err)

	v, err := conditionalPermutation(perturbed, original, labels, nil, nil, scorer, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestConditionalPermutation_NilScorer(t *testing.T) {
	t.Parallel()

	_, err := conditionalPermutation(nil, nil, nil, nil, nil, nil, false)
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEstimate_UnrecognizedMethod(t *testing.T) {
	t.Parallel()

	_, err := estimate(nil, nil, nil, nil, nil, Method("bogus"), false, nil)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, err.Error(), string(MethodOutputVariance))
	assert.Contains(t, err.Error(), string(MethodConditionalPermutation))
}
