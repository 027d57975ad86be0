package markowitz

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/markowitz/date"
	"gonum.org/v1/gonum/mat"
)

// Returns computes the holding-period returns of a close price series.
//
// The return dated t is (close(t)-close(t-1))/close(t-1), so the first date has
// no return and the result is one item shorter than closes. A series of less
// than two prices yields an empty series and ErrInsufficientData, which callers
// may treat as a warning.
func Returns(closes *date.History[float64]) (*date.History[float64], error) {
	returns := new(date.History[float64])
	if closes == nil || closes.Len() < 2 {
		n := 0
		if closes != nil {
			n = closes.Len()
		}
		return returns, fmt.Errorf("%d price(s) cannot make a return: %w", n, ErrInsufficientData)
	}

	first := true
	var prevDay date.Date
	var prev float64
	for on, price := range closes.Values() {
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("price %v on %s: %w", price, on, ErrInvalidPrice)
		}
		if !first {
			if prev <= 0 {
				return nil, fmt.Errorf("price %v on %s cannot be a return base: %w", prev, prevDay, ErrInvalidPrice)
			}
			returns.Append(on, (price-prev)/prev)
		}
		first, prevDay, prev = false, on, price
	}
	return returns, nil
}

// ReturnMatrix holds the returns of several instruments aligned on their common dates.
//
// Rows are dates in chronological order, columns are instruments in the order
// they were given.
type ReturnMatrix struct {
	symbols []string
	days    []date.Date
	data    *mat.Dense // nil when there is no common date
}

// NewReturnMatrix aligns the return series of symbols on the dates they all share.
func NewReturnMatrix(symbols []string, series []*date.History[float64]) (*ReturnMatrix, error) {
	if len(symbols) != len(series) {
		return nil, fmt.Errorf("%d symbols for %d return series: %w", len(symbols), len(series), ErrLengthMismatch)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no instrument: %w", ErrInsufficientHistory)
	}
	days := date.Common(series...)
	rm := &ReturnMatrix{symbols: slices.Clone(symbols), days: days}
	if len(days) == 0 {
		return rm, nil
	}
	rm.data = mat.NewDense(len(days), len(symbols), nil)
	for j, s := range series {
		for i, on := range days {
			v, _ := s.Get(on)
			rm.data.Set(i, j, v)
		}
	}
	return rm, nil
}

// Symbols returns the instruments, in column order.
func (rm *ReturnMatrix) Symbols() []string { return slices.Clone(rm.symbols) }

// Days returns the aligned dates, in row order.
func (rm *ReturnMatrix) Days() []date.Date { return slices.Clone(rm.days) }

// Rows returns the number of aligned dates.
func (rm *ReturnMatrix) Rows() int { return len(rm.days) }

// Column returns a copy of the aligned returns of the j-th instrument.
func (rm *ReturnMatrix) Column(j int) []float64 {
	if rm.data == nil {
		return nil
	}
	return mat.Col(nil, j, rm.data)
}
