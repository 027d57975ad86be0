package markowitz

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value in currency.
func M[T float64 | int64 | decimal.Decimal](value T, currency string) Money {
	var d decimal.Decimal
	switch v := any(value).(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	}
	return Money{value: d, cur: currency}
}

// ParseMoney parses an amount such as "10000.50" in currency.
func ParseMoney(amount, currency string) (Money, error) {
	if money.GetCurrency(currency) == nil {
		return Money{}, fmt.Errorf("unknown currency %q", currency)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value), cur: m.cur} }

// Allocate splits capital across weights, rounded to the currency's minor unit.
//
// Amounts sum exactly to capital: the rounding remainder goes to the largest
// position. Weights may be negative (short positions).
func Allocate(capital Money, weights []float64) []Money {
	fraction := int32(capital.currency().Fraction)
	out := make([]Money, len(weights))
	total := decimal.Zero
	largest := -1
	for i, w := range weights {
		amount := capital.value.Mul(decimal.NewFromFloat(w)).Round(fraction)
		out[i] = Money{value: amount, cur: capital.cur}
		total = total.Add(amount)
		if largest < 0 || amount.Abs().GreaterThan(out[largest].value.Abs()) {
			largest = i
		}
	}
	if largest >= 0 {
		out[largest].value = out[largest].value.Add(capital.value.Sub(total))
	}
	return out
}
