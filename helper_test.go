package markowitz

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/etnz/markowitz/date"
	"gonum.org/v1/gonum/mat"
)

// twoAssets returns the textbook two instrument estimates.
func twoAssets() *Estimates {
	e, err := NewEstimates([]string{"A", "B"}, []float64{0.10, 0.06}, mat.NewSymDense(2, []float64{
		0.04, 0.01,
		0.01, 0.02,
	}))
	if err != nil {
		panic(err)
	}
	return e
}

// threeAssets returns uncorrelated instruments of equal variance and increasing returns.
func threeAssets() *Estimates {
	e, err := NewEstimates([]string{"LOW", "MID", "HIGH"}, []float64{0.05, 0.10, 0.15}, mat.NewSymDense(3, []float64{
		0.01, 0, 0,
		0, 0.01, 0,
		0, 0, 0.01,
	}))
	if err != nil {
		panic(err)
	}
	return e
}

// correlatedAssets returns five instruments with a full, positive definite covariance.
func correlatedAssets() *Estimates {
	mu := []float64{0.04, 0.07, 0.09, 0.12, 0.18}
	vol := []float64{0.10, 0.14, 0.18, 0.22, 0.30}
	n := len(mu)
	sigma := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			rho := 1.0
			if i != j {
				rho = 0.3 - 0.1*float64(j-i)
			}
			sigma.SetSym(i, j, rho*vol[i]*vol[j])
		}
	}
	e, err := NewEstimates([]string{"V", "W", "X", "Y", "Z"}, mu, sigma)
	if err != nil {
		panic(err)
	}
	return e
}

// syntheticPrices returns business day closes following a random walk with the given drift and volatility.
func syntheticPrices(seed uint64, from date.Date, days int, drift, vol float64) []Observation {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	obs := make([]Observation, 0, days)
	price := 100.0
	for on := from; len(obs) < days; on = on.Add(1) {
		if wd := on.Weekday(); wd == 0 || wd == 6 {
			continue
		}
		open := price
		price *= math.Exp(drift + vol*r.NormFloat64())
		obs = append(obs, Observation{Date: on, Open: open, Close: price})
	}
	return obs
}

// fakeFetcher serves fixed observations and counts its calls.
type fakeFetcher struct {
	data  map[string][]Observation
	calls atomic.Int32
}

func (f *fakeFetcher) FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...Field) (PriceHistory, error) {
	f.calls.Add(1)
	var obs []Observation
	for _, o := range f.data[symbol] {
		if r.Contains(o.Date) {
			obs = append(obs, o)
		}
	}
	if len(obs) == 0 {
		return PriceHistory{}, fmt.Errorf("%s in %s: %w", symbol, r, ErrNoData)
	}
	return NewPriceHistory(obs, fields...), nil
}
