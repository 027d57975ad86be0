package markowitz

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"already normalized", []float64{0.25, 0.75}, []float64{0.25, 0.75}},
		{"integer weights", []float64{4, 5}, []float64{4.0 / 9, 5.0 / 9}},
		{"negative weight", []float64{2, -1}, []float64{2, -1}},
		{"negative sum", []float64{-1, -3}, []float64{0.25, 0.75}},
		{"single", []float64{7}, []float64{1}},
		{"tiny normal sum", []float64{1e-300, 3e-300}, []float64{0.25, 0.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize() unexpected error = %v", err)
			}
			if !floats.EqualApprox(got, tt.want, 1e-12) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
			if s := floats.Sum(got); math.Abs(s-1) > 1e-9 {
				t.Errorf("sum(Normalize()) = %v, want 1", s)
			}
		})
	}
}

func TestNormalize_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
	}{
		{"empty", nil},
		{"zeros", []float64{0, 0}},
		{"zero sum", []float64{1, -1}},
		{"nan", []float64{math.NaN(), 1}},
		{"inf", []float64{math.Inf(1), 1}},
		{"subnormal sum", []float64{5e-324, 0}},
		{"subnormal parts", []float64{1e-310, 1e-310}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if !errors.Is(err, ErrDegenerateNormalization) {
				t.Errorf("Normalize() = %v, %v, want ErrDegenerateNormalization", got, err)
			}
		})
	}
}
