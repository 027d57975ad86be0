package markowitz

import (
	"fmt"
	"math"

	"github.com/etnz/markowitz/date"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the returns of a single instrument.
//
// Per period and annualized values follow distinct rules: the arithmetic mean is
// scaled linearly, the geometric mean is compounded and the standard deviation
// grows with the square root of time.
type Stats struct {
	Periods        int     // Number of returns.
	ArithmeticMean float64 // Mean period return.
	GeometricMean  float64 // (∏(1+r))^(1/n) - 1
	StdDev         float64 // Sample standard deviation of the period returns.

	Factor               float64 // Periods per year used to annualize.
	AnnualArithmeticMean float64 // ArithmeticMean × Factor
	AnnualGeometricMean  float64 // (1+GeometricMean)^Factor - 1
	AnnualStdDev         float64 // StdDev × √Factor
}

// Describe computes the descriptive statistics of a return series.
func Describe(returns *date.History[float64], factor float64) (Stats, error) {
	if returns == nil || returns.Len() < 2 {
		n := 0
		if returns != nil {
			n = returns.Len()
		}
		return Stats{}, fmt.Errorf("%d return(s), need at least 2: %w", n, ErrInsufficientHistory)
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Stats{}, fmt.Errorf("invalid annualization factor %v", factor)
	}

	r := make([]float64, 0, returns.Len())
	growth := make([]float64, 0, returns.Len())
	for on, v := range returns.Values() {
		if 1+v <= 0 {
			return Stats{}, fmt.Errorf("return %v on %s: %w", v, on, ErrNonPositiveGrowth)
		}
		r = append(r, v)
		growth = append(growth, 1+v)
	}

	s := Stats{
		Periods:        len(r),
		ArithmeticMean: stat.Mean(r, nil),
		GeometricMean:  stat.GeometricMean(growth, nil) - 1,
		StdDev:         stat.StdDev(r, nil),
		Factor:         factor,
	}
	s.AnnualArithmeticMean = s.ArithmeticMean * factor
	s.AnnualGeometricMean = math.Pow(1+s.GeometricMean, factor) - 1
	s.AnnualStdDev = s.StdDev * math.Sqrt(factor)
	return s, nil
}
