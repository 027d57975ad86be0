package markowitz

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/markowitz/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Universe is a set of instruments with their price histories and estimates.
//
// It is built once by Load: histories are fetched, returns aligned and
// estimates computed eagerly. Changing the instruments means loading a new
// Universe.
type Universe struct {
	symbols   []string
	rng       date.Range
	histories []PriceHistory
	returns   []*date.History[float64]
	matrix    *ReturnMatrix
	estimates *Estimates
	warnings  []error
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	logger      zerolog.Logger
	rng         *date.Range
	today       date.Date
	concurrency int
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *loader) { o.logger = l }
}

// WithRange overrides the lookback window of the configuration.
func WithRange(r date.Range) Option {
	return func(o *loader) { o.rng = &r }
}

// WithToday sets the reference day of the lookback window.
func WithToday(d date.Date) Option {
	return func(o *loader) { o.today = d }
}

// WithConcurrency bounds the number of histories fetched at the same time.
func WithConcurrency(n int) Option {
	return func(o *loader) { o.concurrency = n }
}

// Load fetches the close prices of every configured symbol and estimates their
// mean returns and covariance.
//
// Fetches run in parallel, and all of them complete before returns are
// aligned. An instrument with too short a history is reported in Warnings and
// contributes no date to the alignment.
func Load(ctx context.Context, fetcher HistoryFetcher, cfg *Config, opts ...Option) (*Universe, error) {
	l := loader{logger: zerolog.Nop(), today: date.Today(), concurrency: 4}
	for _, opt := range opts {
		opt(&l)
	}
	// Defaults apply to a copy, the caller's configuration is left untouched.
	c := *cfg
	c.Symbols = slices.Clone(cfg.Symbols)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg = &c
	rng := cfg.Range(l.today)
	if l.rng != nil {
		rng = *l.rng
	}
	if rng.IsEmpty() {
		return nil, fmt.Errorf("empty history range %s: %w", rng, ErrInsufficientHistory)
	}
	logger := l.logger.With().Str("component", "universe").Logger()

	u := &Universe{
		symbols:   slices.Clone(cfg.Symbols),
		rng:       rng,
		histories: make([]PriceHistory, len(cfg.Symbols)),
		returns:   make([]*date.History[float64], len(cfg.Symbols)),
	}

	missing := make([]error, len(u.symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.concurrency, 1))
	for i, symbol := range u.symbols {
		g.Go(func() error {
			h, err := fetcher.FetchHistory(gctx, symbol, rng, cfg.Period(), Open, Close)
			switch {
			case errors.Is(err, ErrNoData):
				missing[i] = fmt.Errorf("%s: %w", symbol, err)
				h = PriceHistory{}
			case err != nil:
				return fmt.Errorf("fetch %s: %w", symbol, err)
			}
			u.histories[i] = h
			logger.Debug().Str("symbol", symbol).Int("prices", h.Closes().Len()).Msg("history fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, symbol := range u.symbols {
		if missing[i] != nil {
			logger.Warn().Str("symbol", symbol).Err(missing[i]).Msg("no data")
			u.warnings = append(u.warnings, missing[i])
		}
		r, err := Returns(u.histories[i].Closes())
		switch {
		case errors.Is(err, ErrInsufficientData):
			logger.Warn().Str("symbol", symbol).Err(err).Msg("no valid returns")
			u.warnings = append(u.warnings, fmt.Errorf("%s: %w", symbol, err))
		case err != nil:
			return nil, fmt.Errorf("returns of %s: %w", symbol, err)
		}
		u.returns[i] = r
	}

	rm, err := NewReturnMatrix(u.symbols, u.returns)
	if err != nil {
		return nil, err
	}
	u.matrix = rm
	logger.Info().Int("instruments", len(u.symbols)).Int("rows", rm.Rows()).Str("range", rng.String()).Msg("returns aligned")

	est, err := Estimate(rm, cfg.Factor())
	if err != nil {
		return nil, errors.Join(append([]error{err}, u.warnings...)...)
	}
	u.estimates = est
	return u, nil
}

// Symbols returns the instruments, in configuration order.
func (u *Universe) Symbols() []string { return slices.Clone(u.symbols) }

// Range returns the history window.
func (u *Universe) Range() date.Range { return u.rng }

// History returns the fetched prices of symbol.
func (u *Universe) History(symbol string) (PriceHistory, bool) {
	i := slices.Index(u.symbols, symbol)
	if i < 0 {
		return nil, false
	}
	return u.histories[i], true
}

// Returns returns the holding-period returns of symbol, before alignment.
func (u *Universe) Returns(symbol string) (*date.History[float64], bool) {
	i := slices.Index(u.symbols, symbol)
	if i < 0 {
		return nil, false
	}
	return u.returns[i], true
}

// Matrix returns the aligned returns.
func (u *Universe) Matrix() *ReturnMatrix { return u.matrix }

// Estimates returns the mean returns and covariance.
func (u *Universe) Estimates() *Estimates { return u.estimates }

// Warnings returns the non fatal issues met while loading.
func (u *Universe) Warnings() []error { return slices.Clone(u.warnings) }
