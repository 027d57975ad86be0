// Package renderer formats optimization results as markdown.
package renderer

import (
	"fmt"
	"strconv"
)

// Percent is a ratio displayed as a percentage: 0.05 is 5.00%.
type Percent float64

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p)*100)
}

// SignedString always shows the sign, and "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p)*100)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// number formats a unitless value such as a variance.
func number(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// price formats a quote, without trailing zeros.
func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
