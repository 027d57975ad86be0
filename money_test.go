package markowitz

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("1234.5", "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency())
	assert.True(t, m.Decimal().Equal(decimal.RequireFromString("1234.50")))
	assert.Contains(t, m.String(), "1,234.50")

	_, err = ParseMoney("12", "XXXX")
	assert.Error(t, err)
	_, err = ParseMoney("twelve", "EUR")
	assert.Error(t, err)
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		capital Money
		weights []float64
		want    []string
	}{
		{"exact", M(int64(1000), "EUR"), []float64{0.25, 0.75}, []string{"250", "750"}},
		{"remainder to largest", M(int64(100), "EUR"), []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, []string{"33.34", "33.33", "33.33"}},
		{"short position", M(int64(1000), "EUR"), []float64{1.5, -0.5}, []string{"1500", "-500"}},
		{"no fraction", M(int64(1000), "JPY"), []float64{1.0 / 3, 2.0 / 3}, []string{"333", "667"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.capital, tt.weights)
			require.Len(t, got, len(tt.want))
			total := M(int64(0), tt.capital.Currency())
			for i, m := range got {
				assert.True(t, m.Decimal().Equal(decimal.RequireFromString(tt.want[i])), "amount %d = %s, want %s", i, m.Decimal(), tt.want[i])
				assert.Equal(t, tt.capital.Currency(), m.Currency())
				total = total.Add(m)
			}
			assert.True(t, total.Equal(tt.capital), "total %s, want %s", total.Decimal(), tt.capital.Decimal())
		})
	}
}
