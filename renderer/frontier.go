package renderer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/etnz/markowitz"
	md "github.com/nao1215/markdown"
)

// FrontierMarkdown renders one row per frontier point, with the weight of
// every instrument, followed by the targets that could not be solved.
func FrontierMarkdown(f *markowitz.Frontier) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Efficient frontier")
	if len(f.Points) == 0 {
		doc.PlainText("No target return could be solved.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Return", "Volatility", "Sharpe⁰"},
			Rows:      [][]string{},
		}
		for _, s := range f.Symbols {
			table.Alignment = append(table.Alignment, md.AlignRight)
			table.Header = append(table.Header, s)
		}
		for _, pt := range f.Points {
			row := []string{
				Percent(pt.TargetReturn).String(),
				Percent(pt.Volatility).String(),
				ratio(pt.TargetReturn, pt.Volatility),
			}
			for _, w := range pt.Weights {
				row = append(row, Percent(w).String())
			}
			table.Rows = append(table.Rows, row)
		}
		doc.Table(table)
		doc.PlainText("Sharpe⁰ is the return to volatility ratio, with a zero risk-free rate.")
	}

	if len(f.Failures) > 0 {
		doc.H2("Skipped targets")
		items := make([]string, len(f.Failures))
		for i, fail := range f.Failures {
			items[i] = fmt.Sprintf("%s: %s", Percent(fail.Target), fail.Reason)
		}
		doc.BulletList(items...)
	}
	return doc.String()
}

func ratio(ret, vol float64) string {
	if vol == 0 || math.IsNaN(vol) {
		return "-"
	}
	return fmt.Sprintf("%.2f", ret/vol)
}
