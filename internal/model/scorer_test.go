package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	t.Parallel()

	labels := []float64{0, 1, 1, 0}
	preds := [][]float64{{0}, {1}, {0}, {0}} // 3 of 4 correct

	v, err := Accuracy(labels, preds, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, v, 1e-12)
}

func TestAccuracy_Argmax(t *testing.T) {
	t.Parallel()

	labels := []float64{0, 2, 1}
	preds := [][]float64{
		{0.7, 0.2, 0.1}, // class 0, correct
		{0.1, 0.2, 0.7}, // class 2, correct
		{0.6, 0.3, 0.1}, // class 0, wrong
	}

	v, err := Accuracy(labels, preds, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, v, 1e-12)
}

func TestAccuracy_Weighted(t *testing.T) {
	t.Parallel()

	labels := []float64{0, 1}
	preds := [][]float64{{0}, {0}} // first correct, second wrong

	// Weighting the wrong row more drags accuracy below 0.5.
	v, err := Accuracy(labels, preds, []float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-12)
}

func TestMeanAbsoluteError(t *testing.T) {
	t.Parallel()

	labels := []float64{1, 2, 3}
	preds := [][]float64{{1.5}, {2}, {2}}

	v, err := MeanAbsoluteError(labels, preds, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)

	weighted, err := MeanAbsoluteError(labels, preds, []float64{0, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, weighted, 1e-12)
}

func TestLogLoss(t *testing.T) {
	t.Parallel()

	labels := []float64{1, 0}
	preds := [][]float64{
		{0.2, 0.8},
		{0.9, 0.1},
	}

	v, err := LogLoss(labels, preds, nil)
	require.NoError(t, err)
	want := -(math.Log(0.8) + math.Log(0.9)) / 2
	assert.InDelta(t, want, v, 1e-12)
}

func TestLogLoss_ScalarAndClipping(t *testing.T) {
	t.Parallel()

	// Scalar predictions are the probability of class 1; exact 0/1 get
	// clipped rather than producing infinities.
	labels := []float64{1, 0}
	preds := [][]float64{{1.0}, {0.0}}

	v, err := LogLoss(labels, preds, nil)
	require.NoError(t, err)
	assert.False(t, math.IsInf(v, 0))
	assert.False(t, math.IsNaN(v))

	_, err = LogLoss([]float64{5}, [][]float64{{0.5, 0.5}}, nil)
	assert.Error(t, err, "out-of-range class label must fail")
}

func TestScoreInputValidation(t *testing.T) {
	t.Parallel()

	_, err := Accuracy(nil, nil, nil)
	assert.Error(t, err)

	_, err = Accuracy([]float64{1}, [][]float64{{1}, {0}}, nil)
	assert.Error(t, err)

	_, err = Accuracy([]float64{1}, [][]float64{{1}}, []float64{1, 2})
	assert.Error(t, err)
}

func TestDefaultScorers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    Kind
		def     string
		defType Monotonicity
	}{
		{KindRegressor, "mean-absolute-error", Decreasing},
		{KindClassifier, "accuracy", Increasing},
		{KindProbabilisticClassifier, "log-loss", Decreasing},
	}

	for _, tc := range tests {
		s := DefaultScorers(tc.kind)
		def := s.Default()
		require.NotNil(t, def, "kind %v must have a default scorer", tc.kind)
		assert.Equal(t, tc.def, def.Name)
		assert.Equal(t, tc.defType, def.Type)
	}

	s := DefaultScorers(KindRegressor)
	_, err := s.Get("accuracy")
	assert.NoError(t, err)
	_, err = s.Get("bogus")
	assert.Error(t, err)
	assert.Len(t, s.Names(), 3)
}
