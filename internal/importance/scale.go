package importance

import "math"

// scaleWeights computes the per-row perturbation strength: the absolute
// move of each value, normalized by the feature's observed range. When no
// row moved at all (constant feature, degenerate sampling) it falls back
// to a uniform weight of 1 per row instead of producing zero weights.
func scaleWeights(original, perturbed []float64) []float64 {
	lo, hi := original[0], original[0]
	for _, v := range original[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	scales := make([]float64, len(original))
	if span == 0 {
		// Constant feature: no observed range to normalize against, and
		// perturbations drawn from observed values cannot move anything.
		for i := range scales {
			scales[i] = 1
		}
		return scales
	}
	allZero := true
	for i := range original {
		scales[i] = math.Abs(perturbed[i]-original[i]) / span
		if scales[i] != 0 {
			allZero = false
		}
	}

	if allZero {
		for i := range scales {
			scales[i] = 1
		}
	}
	return scales
}
