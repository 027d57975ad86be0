package markowitz

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultAnnualization is the number of trading periods in a year.
const DefaultAnnualization = 252

// Estimates holds the expected returns and the covariance of a set of instruments.
//
// Mean returns are annualized by linear scaling of the period mean. The
// covariance is the unbiased sample covariance of the period returns, it is not
// annualized. Estimates are immutable once built.
type Estimates struct {
	symbols []string
	mu      []float64
	sigma   *mat.SymDense
}

// Estimate computes the mean return vector and the covariance matrix of rm.
//
// It needs at least two aligned rows and returns ErrInsufficientHistory otherwise.
func Estimate(rm *ReturnMatrix, annualization float64) (*Estimates, error) {
	if rm == nil || rm.Rows() < 2 || rm.data == nil {
		rows := 0
		if rm != nil {
			rows = rm.Rows()
		}
		return nil, fmt.Errorf("%d aligned return(s), need at least 2: %w", rows, ErrInsufficientHistory)
	}
	if annualization <= 0 || math.IsNaN(annualization) || math.IsInf(annualization, 0) {
		return nil, fmt.Errorf("invalid annualization factor %v", annualization)
	}

	n := len(rm.symbols)
	mu := make([]float64, n)
	for j := range n {
		mu[j] = stat.Mean(rm.Column(j), nil) * annualization
	}
	sigma := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(sigma, rm.data, nil)

	return newEstimates(rm.symbols, mu, sigma)
}

// NewEstimates builds Estimates from an already known mean vector and covariance matrix.
func NewEstimates(symbols []string, mu []float64, sigma mat.Symmetric) (*Estimates, error) {
	if sigma == nil {
		return nil, fmt.Errorf("nil covariance: %w", ErrLengthMismatch)
	}
	return newEstimates(symbols, mu, sigma)
}

func newEstimates(symbols []string, mu []float64, sigma mat.Symmetric) (*Estimates, error) {
	n := len(symbols)
	if n == 0 {
		return nil, fmt.Errorf("no instrument: %w", ErrInsufficientHistory)
	}
	if len(mu) != n || sigma.SymmetricDim() != n {
		return nil, fmt.Errorf("%d symbols, %d mean returns and a %dx%d covariance: %w", n, len(mu), sigma.SymmetricDim(), sigma.SymmetricDim(), ErrLengthMismatch)
	}
	if floats.HasNaN(mu) || slices.ContainsFunc(mu, func(x float64) bool { return math.IsInf(x, 0) }) {
		return nil, fmt.Errorf("mean returns %v are not finite: %w", mu, ErrInsufficientHistory)
	}
	e := &Estimates{
		symbols: slices.Clone(symbols),
		mu:      slices.Clone(mu),
		sigma:   mat.NewSymDense(n, nil),
	}
	e.sigma.CopySym(sigma)
	for i := range n {
		for j := i; j < n; j++ {
			if v := e.sigma.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("covariance of %s and %s is %v: %w", symbols[i], symbols[j], v, ErrInsufficientHistory)
			}
		}
	}
	return e, nil
}

// Symbols returns the instruments, in estimate order.
func (e *Estimates) Symbols() []string { return slices.Clone(e.symbols) }

// Len returns the number of instruments.
func (e *Estimates) Len() int { return len(e.symbols) }

// Mean returns a copy of the annualized mean returns.
func (e *Estimates) Mean() []float64 { return slices.Clone(e.mu) }

// Covariance returns a copy of the covariance matrix.
func (e *Estimates) Covariance() *mat.SymDense {
	c := mat.NewSymDense(e.Len(), nil)
	c.CopySym(e.sigma)
	return c
}

// ReturnRange returns the smallest and the largest mean return.
func (e *Estimates) ReturnRange() (lo, hi float64) { return floats.Min(e.mu), floats.Max(e.mu) }

// Evaluate returns the portfolio made of weights w, in estimate order.
func (e *Estimates) Evaluate(w []float64) (Portfolio, error) {
	if len(w) != e.Len() {
		return Portfolio{}, fmt.Errorf("%d weights for %d instruments: %w", len(w), e.Len(), ErrLengthMismatch)
	}
	return Portfolio{
		Symbols:        e.Symbols(),
		Weights:        slices.Clone(w),
		ExpectedReturn: floats.Dot(w, e.mu),
		Variance:       e.variance(w),
	}, nil
}

// variance returns wᵀΣw, never negative.
func (e *Estimates) variance(w []float64) float64 {
	x := mat.NewVecDense(len(w), slices.Clone(w))
	v := mat.Inner(x, e.sigma, x)
	// rounding can make a null variance slightly negative.
	return max(v, 0)
}
