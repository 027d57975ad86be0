package markowitz

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultRiskFreeRate is the annualized risk-free rate used for the tangency portfolio.
const DefaultRiskFreeRate = 0.04

// inverse returns Σ⁻¹, or ErrSingularCovariance when Σ is singular or too ill
// conditioned to be inverted.
func (e *Estimates) inverse() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(e.sigma); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularCovariance, err)
	}
	return &inv, nil
}

// MinimumVariance returns the portfolio of minimum variance, with no bound on
// the weights: w = Σ⁻¹1 / (1ᵀΣ⁻¹1).
func (e *Estimates) MinimumVariance() (Portfolio, error) {
	ones := make([]float64, e.Len())
	for i := range ones {
		ones[i] = 1
	}
	return e.solveNormalized(ones)
}

// Tangency returns the "optimal" portfolio for the risk-free rate rf.
//
// It computes u = Σ⁻¹(μ - rf·1) and divides u by the sum of its elements. The
// weights are not bounded: they may be negative or exceed one.
func (e *Estimates) Tangency(rf float64) (Portfolio, error) {
	excess := make([]float64, e.Len())
	for i, m := range e.mu {
		excess[i] = m - rf
	}
	return e.solveNormalized(excess)
}

// solveNormalized evaluates the portfolio normalize(Σ⁻¹b).
func (e *Estimates) solveNormalized(b []float64) (Portfolio, error) {
	inv, err := e.inverse()
	if err != nil {
		return Portfolio{}, err
	}
	var u mat.VecDense
	u.MulVec(inv, mat.NewVecDense(len(b), b))
	w, err := Normalize(u.RawVector().Data)
	if err != nil {
		return Portfolio{}, err
	}
	return e.Evaluate(w)
}
