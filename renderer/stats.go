package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/markowitz"
	md "github.com/nao1215/markdown"
)

// StatsMarkdown renders the descriptive statistics of symbol's returns.
func StatsMarkdown(symbol string, s markowitz.Stats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Statistics for %s", symbol))
	doc.PlainText(fmt.Sprintf("%d returns, annualized over %s periods per year.", s.Periods, number(s.Factor)))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Metric", "Per period", "Annualized"},
		Rows: [][]string{
			{"Arithmetic mean", Percent(s.ArithmeticMean).String(), Percent(s.AnnualArithmeticMean).String()},
			{"Geometric mean", Percent(s.GeometricMean).String(), Percent(s.AnnualGeometricMean).String()},
			{"Standard deviation", Percent(s.StdDev).String(), Percent(s.AnnualStdDev).String()},
		},
	})
	return doc.String()
}
