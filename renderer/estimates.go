package renderer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/date"
	md "github.com/nao1215/markdown"
)

// EstimatesMarkdown renders the mean returns and the covariance matrix.
//
// rng and rows describe the history the estimates come from. Warnings are
// listed last, when there are some.
func EstimatesMarkdown(e *markowitz.Estimates, rng date.Range, rows int, warnings []error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Estimates")
	doc.PlainText(fmt.Sprintf("%d aligned returns from %s to %s.", rows, rng.From, rng.To))

	symbols := e.Symbols()
	mu := e.Mean()
	sigma := e.Covariance()

	doc.H2("Mean returns")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Annual return", "Volatility"},
		Rows:      [][]string{},
	}
	for i, s := range symbols {
		table.Rows = append(table.Rows, []string{
			s,
			Percent(mu[i]).String(),
			Percent(math.Sqrt(sigma.At(i, i))).String(),
		})
	}
	doc.Table(table)

	doc.H2("Covariance")
	cov := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft},
		Header:    append([]string{"Σ"}, symbols...),
		Rows:      [][]string{},
	}
	for i, s := range symbols {
		cov.Alignment = append(cov.Alignment, md.AlignRight)
		row := []string{md.Bold(s)}
		for j := range symbols {
			row = append(row, number(sigma.At(i, j)))
		}
		cov.Rows = append(cov.Rows, row)
	}
	doc.Table(cov)

	if len(warnings) > 0 {
		doc.H2("Warnings")
		items := make([]string, len(warnings))
		for i, err := range warnings {
			items[i] = err.Error()
		}
		doc.BulletList(items...)
	}

	return doc.String()
}
