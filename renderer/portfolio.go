package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/markowitz"
	md "github.com/nao1215/markdown"
)

// PortfolioMarkdown renders a portfolio's weights and risk figures.
//
// With a non zero capital, each weight is also shown as an amount of money.
func PortfolioMarkdown(title string, p markowitz.Portfolio, capital markowitz.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Expected return", md.Bold(Percent(p.ExpectedReturn).String())},
			{"Volatility", Percent(p.Volatility()).String()},
			{"Variance", number(p.Variance)},
		},
	})

	doc.H2("Weights")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Symbol", "Weight"},
		Rows:      [][]string{},
	}
	var amounts []markowitz.Money
	if !capital.IsZero() {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, "Amount")
		amounts = markowitz.Allocate(capital, p.Weights)
	}
	for i, s := range p.Symbols {
		row := []string{s, Percent(p.Weights[i]).String()}
		if amounts != nil {
			row = append(row, amounts[i].String())
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	if amounts != nil {
		doc.PlainText(fmt.Sprintf("Allocation of %s.", capital))
	}

	return doc.String()
}
