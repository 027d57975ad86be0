package markowitz

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/etnz/markowitz/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closes(from date.Date, prices ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, p := range prices {
		h.Append(from.Add(i), p)
	}
	return h
}

func TestReturns(t *testing.T) {
	d := date.New(2025, time.March, 3)
	r, err := Returns(closes(d, 100, 110, 99, 99))
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	want := []float64{0.10, -0.10, 0}
	i := 0
	for on, v := range r.Values() {
		assert.Equal(t, d.Add(i+1), on, "return %d date", i)
		assert.InDelta(t, want[i], v, 1e-12, "return %d", i)
		i++
	}
}

func TestReturns_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		closes *date.History[float64]
	}{
		{"nil", nil},
		{"empty", new(date.History[float64])},
		{"single", closes(date.New(2025, 1, 2), 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Returns(tt.closes)
			if !errors.Is(err, ErrInsufficientData) {
				t.Fatalf("Returns() error = %v, want ErrInsufficientData", err)
			}
			if r == nil || r.Len() != 0 {
				t.Errorf("Returns() = %v, want an empty series", r)
			}
		})
	}
}

func TestReturns_InvalidPrice(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{"zero base", []float64{100, 0, 10}},
		{"negative base", []float64{-5, 10}},
		{"nan", []float64{100, math.NaN()}},
		{"inf", []float64{math.Inf(1), 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Returns(closes(date.New(2025, 1, 2), tt.prices...))
			if !errors.Is(err, ErrInvalidPrice) {
				t.Errorf("Returns() error = %v, want ErrInvalidPrice", err)
			}
		})
	}
}

func TestNewReturnMatrix(t *testing.T) {
	d := date.New(2025, time.March, 3)
	a := new(date.History[float64]).Append(d, 0.01).Append(d.Add(1), 0.02).Append(d.Add(2), 0.03)
	b := new(date.History[float64]).Append(d.Add(1), -0.02).Append(d.Add(2), -0.03).Append(d.Add(3), -0.04)

	rm, err := NewReturnMatrix([]string{"A", "B"}, []*date.History[float64]{a, b})
	require.NoError(t, err)

	assert.Equal(t, []date.Date{d.Add(1), d.Add(2)}, rm.Days())
	assert.Equal(t, []float64{0.02, 0.03}, rm.Column(0))
	assert.Equal(t, []float64{-0.02, -0.03}, rm.Column(1))
}

func TestNewReturnMatrix_Errors(t *testing.T) {
	a := closes(date.New(2025, 1, 2), 0.1, 0.2)
	if _, err := NewReturnMatrix([]string{"A", "B"}, []*date.History[float64]{a}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("NewReturnMatrix() error = %v, want ErrLengthMismatch", err)
	}

	disjoint := closes(date.New(2024, 1, 2), 0.1, 0.2)
	rm, err := NewReturnMatrix([]string{"A", "B"}, []*date.History[float64]{a, disjoint})
	require.NoError(t, err)
	assert.Zero(t, rm.Rows())
	if _, err := Estimate(rm, DefaultAnnualization); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("Estimate() error = %v, want ErrInsufficientHistory", err)
	}
}
