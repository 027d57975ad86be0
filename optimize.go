package markowitz

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// OptimizeFor returns the long-only portfolio of minimum variance whose expected
// return is target.
//
// Weights sum to one and each lies in [0, 1]. A target outside the range of the
// instruments' mean returns cannot be reached and yields an *OptimizationError.
func (e *Estimates) OptimizeFor(target float64) (FrontierPoint, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return FrontierPoint{}, optimizationFailure(target, "target return is not finite")
	}
	lo, hi := e.ReturnRange()
	tol := 1e-9 * max(1, math.Abs(lo), math.Abs(hi))
	if target < lo-tol || target > hi+tol {
		return FrontierPoint{}, optimizationFailure(target, "target return outside the attainable range [%.6g, %.6g]", lo, hi)
	}

	var w []float64
	var err error
	switch {
	case target >= hi-tol || target <= lo+tol:
		w, err = e.optimizeExtreme(target, tol)
	default:
		w, err = newQP(e.sigma, e.mu, target).solve(e.feasibleStart(target))
	}
	if err != nil {
		return FrontierPoint{}, optimizationFailure(target, "%v", err)
	}
	return FrontierPoint{
		Volatility:   math.Sqrt(e.variance(w)),
		TargetReturn: target,
		Weights:      w,
	}, nil
}

// feasibleStart moves the uniform weights toward the instrument of highest (or
// lowest) mean return until the target return is met. target must lie strictly
// inside the return range, so every weight stays positive.
func (e *Estimates) feasibleStart(target float64) []float64 {
	n := e.Len()
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	r0 := floats.Dot(w, e.mu)
	if target == r0 {
		return w
	}
	k := floats.MaxIdx(e.mu)
	if target < r0 {
		k = floats.MinIdx(e.mu)
	}
	t := (target - r0) / (e.mu[k] - r0)
	floats.Scale(1-t, w)
	w[k] += t
	return w
}

// optimizeExtreme handles a target at one end of the return range. Only the
// instruments with that mean return can hold weight, so the problem reduces to
// the minimum variance portfolio among them.
func (e *Estimates) optimizeExtreme(target, tol float64) ([]float64, error) {
	var tied []int
	for i, m := range e.mu {
		if math.Abs(m-target) <= tol {
			tied = append(tied, i)
		}
	}
	if len(tied) == 0 {
		return nil, errors.New("no instrument at the target return")
	}
	sub := mat.NewSymDense(len(tied), nil)
	mu := make([]float64, len(tied))
	w0 := make([]float64, len(tied))
	for a, i := range tied {
		for b, j := range tied {
			sub.SetSym(a, b, e.sigma.At(i, j))
		}
		mu[a] = e.mu[i]
		w0[a] = 1 / float64(len(tied))
	}
	ws, err := newQP(sub, mu, floats.Dot(w0, mu)).solve(w0)
	if err != nil {
		return nil, err
	}
	w := make([]float64, e.Len())
	for a, i := range tied {
		w[i] = ws[a]
	}
	return w, nil
}
