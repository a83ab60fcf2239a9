package dataset

import (
	"fmt"
	"math/rand"
	"sort"
)

// Strategy selects how replacement values for a column are drawn.
type Strategy string

const (
	// StrategyRandomChoice draws uniformly at random from the observed
	// values of the column. Used for categorical features.
	StrategyRandomChoice Strategy = "random-choice"

	// StrategySimilarityRanks draws uniformly over the column's similarity
	// ranks: a rank position is chosen uniformly and the value is
	// interpolated between the adjacent order statistics, so draws stay
	// close in magnitude to observed values. Used for numeric features.
	StrategySimilarityRanks Strategy = "uniform-over-similarity-ranks"
)

// SampleColumn draws n replacement values for one feature using the given
// strategy. The returned slice is ordered arbitrarily; callers assign it to
// rows positionally.
func (d *Dataset) SampleColumn(id string, n int, strategy Strategy, rng *rand.Rand) ([]float64, error) {
	values, err := d.Column(id)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("dataset: cannot sample column %q of an empty dataset", id)
	}
	if n <= 0 {
		return nil, fmt.Errorf("dataset: sample count must be positive, got %d", n)
	}

	switch strategy {
	case StrategyRandomChoice:
		out := make([]float64, n)
		for i := range out {
			out[i] = values[rng.Intn(len(values))]
		}
		return out, nil

	case StrategySimilarityRanks:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		out := make([]float64, n)
		if len(sorted) == 1 {
			for i := range out {
				out[i] = sorted[0]
			}
			return out, nil
		}
		for i := range out {
			// Uniform position in rank space, interpolated between the
			// two nearest order statistics.
			pos := rng.Float64() * float64(len(sorted)-1)
			lo := int(pos)
			if lo >= len(sorted)-1 {
				lo = len(sorted) - 2
			}
			frac := pos - float64(lo)
			out[i] = sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
		}
		return out, nil

	default:
		return nil, fmt.Errorf("dataset: unknown sampling strategy %q", strategy)
	}
}
