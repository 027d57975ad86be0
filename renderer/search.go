package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/markowitz/eodhd"
	md "github.com/nao1215/markdown"
)

// SearchMarkdown renders symbol lookup results.
func SearchMarkdown(term string, results []eodhd.SearchResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Search results for %q", term))
	if len(results) == 0 {
		doc.PlainText("No match.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Symbol", "Name", "ISIN", "MIC", "Currency", "Previous close"},
		Rows:      [][]string{},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.Symbol(), r.Name, r.ISIN, r.MIC, r.Currency, price(r.PreviousClose),
		})
	}
	doc.Table(table)
	return doc.String()
}
