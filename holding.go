package markowitz

import (
	"context"
	"fmt"
)

// Holding is a user weighted portfolio evaluated over a loaded universe.
type Holding struct {
	Portfolio
	Universe *Universe
}

// EvaluateHolding evaluates the portfolio holding cfg.Symbols in proportion to
// weights. Weights are normalized to sum to one.
//
// Weights and symbols must have the same length, which is checked before any
// data is fetched.
func EvaluateHolding(ctx context.Context, fetcher HistoryFetcher, cfg *Config, weights []float64, opts ...Option) (*Holding, error) {
	if len(weights) != len(cfg.Symbols) {
		return nil, fmt.Errorf("%d weights for %d symbols: %w", len(weights), len(cfg.Symbols), ErrLengthMismatch)
	}
	w, err := Normalize(weights)
	if err != nil {
		return nil, err
	}
	u, err := Load(ctx, fetcher, cfg, opts...)
	if err != nil {
		return nil, err
	}
	p, err := u.Estimates().Evaluate(w)
	if err != nil {
		return nil, err
	}
	return &Holding{Portfolio: p, Universe: u}, nil
}
