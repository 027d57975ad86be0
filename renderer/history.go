package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/markowitz"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the fetched prices of symbol, oldest first.
func HistoryMarkdown(symbol string, h markowitz.PriceHistory) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", symbol))

	obs := h.Observations()
	if len(obs) == 0 {
		doc.PlainText("No prices.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Open", "Close"},
		Rows:   [][]string{},
	}
	_, hasOpen := h[markowitz.Open]
	for _, o := range obs {
		open := "-"
		if hasOpen {
			open = price(o.Open)
		}
		table.Rows = append(table.Rows, []string{
			o.Date.String(),
			open,
			price(o.Close),
		})
	}
	doc.Table(table)

	return doc.String()
}
