package markowitz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// FrontierPoints is the number of target returns swept by EfficientFrontier.
const FrontierPoints = 50

// FrontierPoint is the minimum variance long-only portfolio for a target return.
type FrontierPoint struct {
	Volatility   float64
	TargetReturn float64
	Weights      []float64
}

// Frontier is the efficient frontier: points in ascending target return.
//
// Targets that could not be solved are not points of the frontier, they are
// reported in Failures instead.
type Frontier struct {
	Symbols  []string
	Points   []FrontierPoint
	Failures []*OptimizationError
}

// Plotter renders a frontier as parallel volatility and return series.
type Plotter interface {
	Plot(volatility, returns []float64) error
}

// NopPlotter is a Plotter that draws nothing.
type NopPlotter struct{}

// Plot does nothing.
func (NopPlotter) Plot(volatility, returns []float64) error { return nil }

// Plot hands the frontier's points to p.
func (f *Frontier) Plot(p Plotter) error {
	vol := make([]float64, len(f.Points))
	ret := make([]float64, len(f.Points))
	for i, pt := range f.Points {
		vol[i], ret[i] = pt.Volatility, pt.TargetReturn
	}
	return p.Plot(vol, ret)
}

// FrontierOption configures a frontier sweep.
type FrontierOption func(*frontierConfig)

type frontierConfig struct {
	logger      zerolog.Logger
	concurrency int
}

// WithFrontierLogger logs each failed target at debug level.
func WithFrontierLogger(l zerolog.Logger) FrontierOption {
	return func(c *frontierConfig) { c.logger = l }
}

// WithFrontierConcurrency bounds the number of targets solved at the same time.
func WithFrontierConcurrency(n int) FrontierOption {
	return func(c *frontierConfig) { c.concurrency = n }
}

// EfficientFrontier sweeps FrontierPoints target returns evenly spaced between
// the lowest and the highest mean return, bounds included.
//
// It returns ErrInvalidRange when that range is degenerate: not finite, or a
// single value because all instruments share the same mean return.
func (e *Estimates) EfficientFrontier(ctx context.Context, opts ...FrontierOption) (*Frontier, error) {
	lo, hi := e.ReturnRange()
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("return range [%v, %v]: %w", lo, hi, ErrInvalidRange)
	}
	if lo == hi {
		return nil, fmt.Errorf("all instruments return %v: %w", lo, ErrInvalidRange)
	}
	return e.EfficientFrontierTargets(ctx, floats.Span(make([]float64, FrontierPoints), lo, hi), opts...)
}

// EfficientFrontierTargets solves each target independently and keeps, in the
// targets order, the ones that succeed.
//
// A target that cannot be solved does not abort the sweep; only a cancelled
// context does.
func (e *Estimates) EfficientFrontierTargets(ctx context.Context, targets []float64, opts ...FrontierOption) (*Frontier, error) {
	cfg := frontierConfig{logger: zerolog.Nop(), concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	points := make([]FrontierPoint, len(targets))
	failures := make([]error, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.concurrency, 1))
	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points[i], failures[i] = e.OptimizeFor(target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Frontier{Symbols: e.Symbols()}
	for i, err := range failures {
		if err == nil {
			f.Points = append(f.Points, points[i])
			continue
		}
		var oe *OptimizationError
		if !errors.As(err, &oe) {
			oe = &OptimizationError{Target: targets[i], Reason: err.Error()}
		}
		cfg.logger.Debug().Float64("target", oe.Target).Str("reason", oe.Reason).Msg("frontier point skipped")
		f.Failures = append(f.Failures, oe)
	}
	return f, nil
}
