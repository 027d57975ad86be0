package markowitz

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/markowitz/date"
)

// Field names a per-period price series returned by a HistoryFetcher.
type Field string

const (
	Open  Field = "open"
	Close Field = "close"
)

// ParseField parses a field name, case insensitive.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case Open, Close:
		return f, nil
	default:
		return "", fmt.Errorf("unknown price field %q", s)
	}
}

// Observation is one instrument's prices for one period.
type Observation struct {
	Date  date.Date
	Open  float64
	Close float64
}

// PriceHistory maps each requested field to its dated series.
type PriceHistory map[Field]*date.History[float64]

// NewPriceHistory builds a PriceHistory restricted to fields from raw observations.
// With no field given, both open and close are kept.
func NewPriceHistory(obs []Observation, fields ...Field) PriceHistory {
	if len(fields) == 0 {
		fields = []Field{Open, Close}
	}
	h := make(PriceHistory, len(fields))
	for _, f := range fields {
		h[f] = new(date.History[float64])
	}
	for _, o := range obs {
		if s, ok := h[Open]; ok {
			s.Append(o.Date, o.Open)
		}
		if s, ok := h[Close]; ok {
			s.Append(o.Date, o.Close)
		}
	}
	return h
}

// Closes returns the close series, or an empty one.
func (h PriceHistory) Closes() *date.History[float64] {
	if s, ok := h[Close]; ok && s != nil {
		return s
	}
	return new(date.History[float64])
}

// Observations returns the history as a chronological list of observations.
// A missing field is reported as zero.
func (h PriceHistory) Observations() []Observation {
	var series []*date.History[float64]
	for _, s := range h {
		series = append(series, s)
	}
	var obs []Observation
	for on := range date.Iterate(series...) {
		o := Observation{Date: on}
		if s, ok := h[Open]; ok {
			o.Open, _ = s.Get(on)
		}
		if s, ok := h[Close]; ok {
			o.Close, _ = s.Get(on)
		}
		obs = append(obs, o)
	}
	return obs
}

// HistoryFetcher is the market data capability.
//
// FetchHistory returns, for a symbol, the requested fields over the range r
// sampled at the given interval. When there is no data, it returns an empty
// PriceHistory and an error wrapping ErrNoData.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...Field) (PriceHistory, error)
}

// HistoryFetcherFunc adapts a function to the HistoryFetcher interface.
type HistoryFetcherFunc func(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...Field) (PriceHistory, error)

// FetchHistory calls f.
func (f HistoryFetcherFunc) FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...Field) (PriceHistory, error) {
	return f(ctx, symbol, r, interval, fields...)
}
