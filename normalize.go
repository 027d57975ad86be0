package markowitz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022

// Normalize returns v scaled so that its elements sum to one.
//
// A vector summing to zero, to a subnormal or to a non finite value cannot be
// normalized and ErrDegenerateNormalization is returned instead.
func Normalize(v []float64) ([]float64, error) {
	sum := floats.Sum(v)
	if math.Abs(sum) < minNormal || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("cannot normalize %v with sum %v: %w", v, sum, ErrDegenerateNormalization)
	}
	w := make([]float64, len(v))
	for i, x := range v {
		w[i] = x / sum
		if math.IsInf(w[i], 0) || math.IsNaN(w[i]) {
			return nil, fmt.Errorf("cannot normalize %v with sum %v: %w", v, sum, ErrDegenerateNormalization)
		}
	}
	return w, nil
}
