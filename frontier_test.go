package markowitz

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestEfficientFrontier(t *testing.T) {
	e := correlatedAssets()
	f, err := e.EfficientFrontier(context.Background())
	require.NoError(t, err)
	require.Len(t, f.Points, FrontierPoints)
	assert.Empty(t, f.Failures)
	assert.Equal(t, e.Symbols(), f.Symbols)

	lo, hi := e.ReturnRange()
	assert.InDelta(t, lo, f.Points[0].TargetReturn, 1e-15)
	assert.InDelta(t, hi, f.Points[len(f.Points)-1].TargetReturn, 1e-15)

	mvp, err := e.MinimumVariance()
	require.NoError(t, err)

	for i, pt := range f.Points {
		if i > 0 {
			assert.Greater(t, pt.TargetReturn, f.Points[i-1].TargetReturn)
		}
		assertFeasible(t, e, pt)
		// the unconstrained minimum is never beaten.
		assert.GreaterOrEqual(t, pt.Volatility, mvp.Volatility()-1e-9, "target %v", pt.TargetReturn)
	}
}

func TestEfficientFrontier_DuplicateInstrument(t *testing.T) {
	// C is a copy of B: Σ is singular and B, C are interchangeable.
	e, err := NewEstimates([]string{"A", "B", "C"}, []float64{0.10, 0.06, 0.06}, mat.NewSymDense(3, []float64{
		0.04, 0.01, 0.01,
		0.01, 0.02, 0.02,
		0.01, 0.02, 0.02,
	}))
	require.NoError(t, err)
	f, err := e.EfficientFrontier(context.Background())
	require.NoError(t, err)
	require.Len(t, f.Points, FrontierPoints)
	assert.Empty(t, f.Failures)

	pair, err := twoAssets().EfficientFrontier(context.Background())
	require.NoError(t, err)
	require.Len(t, pair.Points, FrontierPoints)
	for i, pt := range f.Points {
		assertFeasible(t, e, pt)
		want := pair.Points[i]
		assert.InDelta(t, want.Volatility, pt.Volatility, 1e-9, "target %v", pt.TargetReturn)
		assert.InDelta(t, want.Weights[0], pt.Weights[0], 1e-9, "target %v", pt.TargetReturn)
		assert.InDelta(t, want.Weights[1], pt.Weights[1]+pt.Weights[2], 1e-9, "target %v", pt.TargetReturn)
	}
}

func TestEfficientFrontier_FewerReturnsThanInstruments(t *testing.T) {
	// Three returns of six instruments: Σ has rank two.
	returns := mat.NewDense(3, 6, []float64{
		0.010, -0.004, 0.006, 0.002, -0.008, 0.012,
		-0.006, 0.008, 0.001, 0.004, 0.010, -0.002,
		0.002, 0.003, -0.005, 0.007, 0.001, 0.005,
	})
	sigma := mat.NewSymDense(6, nil)
	stat.CovarianceMatrix(sigma, returns, nil)
	mu := make([]float64, 6)
	for j := range mu {
		mu[j] = stat.Mean(mat.Col(nil, j, returns), nil) * DefaultAnnualization
	}
	e, err := NewEstimates([]string{"A", "B", "C", "D", "E", "F"}, mu, sigma)
	require.NoError(t, err)

	f, err := e.EfficientFrontier(context.Background())
	require.NoError(t, err)
	require.Len(t, f.Points, FrontierPoints)
	assert.Empty(t, f.Failures)

	lo, hi := e.ReturnRange()
	for _, pt := range f.Points {
		assertFeasible(t, e, pt)
		if pt.TargetReturn <= lo || pt.TargetReturn >= hi {
			continue
		}
		// never worse than the point the search starts from.
		start := e.variance(e.feasibleStart(pt.TargetReturn))
		assert.LessOrEqual(t, pt.Volatility*pt.Volatility, start+1e-12, "target %v", pt.TargetReturn)
		assert.InDelta(t, 1, floats.Sum(pt.Weights), 1e-9)
	}
}

func TestEfficientFrontier_InvalidRange(t *testing.T) {
	e, err := NewEstimates([]string{"A", "B"}, []float64{0.08, 0.08}, mat.NewSymDense(2, []float64{0.04, 0, 0, 0.02}))
	require.NoError(t, err)

	_, err = e.EfficientFrontier(context.Background())
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("EfficientFrontier() error = %v, want ErrInvalidRange", err)
	}
}

func TestEfficientFrontierTargets_Failures(t *testing.T) {
	var buf bytes.Buffer
	e := threeAssets()
	targets := []float64{0.05, 0.10, 0.20, math.NaN(), 0.15}

	f, err := e.EfficientFrontierTargets(context.Background(), targets,
		WithFrontierLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
		WithFrontierConcurrency(2),
	)
	require.NoError(t, err)

	require.Len(t, f.Points, 3)
	assert.Equal(t, []float64{0.05, 0.10, 0.15}, []float64{f.Points[0].TargetReturn, f.Points[1].TargetReturn, f.Points[2].TargetReturn})

	require.Len(t, f.Failures, 2)
	assert.Equal(t, 0.20, f.Failures[0].Target)
	assert.True(t, math.IsNaN(f.Failures[1].Target))
	for _, fail := range f.Failures {
		assert.ErrorIs(t, fail, ErrOptimizationFailure)
	}
	assert.Contains(t, buf.String(), "frontier point skipped")
}

func TestEfficientFrontierTargets_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := correlatedAssets().EfficientFrontierTargets(ctx, []float64{0.05, 0.06})
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingPlotter struct {
	volatility, returns []float64
}

func (p *recordingPlotter) Plot(volatility, returns []float64) error {
	p.volatility, p.returns = volatility, returns
	return nil
}

func TestFrontier_Plot(t *testing.T) {
	f, err := threeAssets().EfficientFrontier(context.Background())
	require.NoError(t, err)

	var p recordingPlotter
	require.NoError(t, f.Plot(&p))
	require.Len(t, p.volatility, len(f.Points))
	require.Len(t, p.returns, len(f.Points))
	for i, pt := range f.Points {
		assert.Equal(t, pt.Volatility, p.volatility[i])
		assert.Equal(t, pt.TargetReturn, p.returns[i])
	}

	assert.NoError(t, f.Plot(NopPlotter{}))
}
