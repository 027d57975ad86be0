package markowitz

import "math"

// Portfolio is a weighted set of instruments with its expected return and variance.
type Portfolio struct {
	Symbols        []string
	Weights        []float64
	ExpectedReturn float64 // w·μ, annualized
	Variance       float64 // wᵀΣw
}

// Volatility returns the standard deviation of the portfolio return.
func (p Portfolio) Volatility() float64 { return math.Sqrt(p.Variance) }

// Weight returns the weight of symbol, or 0 if it is not in the portfolio.
func (p Portfolio) Weight(symbol string) float64 {
	for i, s := range p.Symbols {
		if s == symbol {
			return p.Weights[i]
		}
	}
	return 0
}
