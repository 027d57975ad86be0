// Package csvfile serves price histories from a directory of CSV files.
//
// Each instrument is a file named after its symbol, SYMBOL.csv, with a header
// and one row per period:
//
//	date,open,close
//	2024-01-02,100.5,101.25
//
// Columns are found by header name and may come in any order; the open column
// is optional.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/date"
	"github.com/shopspring/decimal"
)

// Dir is a directory of CSV files. It implements markowitz.HistoryFetcher.
type Dir string

// Path returns the file holding symbol's prices.
func (d Dir) Path(symbol string) string {
	return filepath.Join(string(d), symbol+".csv")
}

// FetchHistory reads symbol's file and keeps the rows within r.
//
// Rows are the periods of the file: interval is only checked for being daily,
// weekly or monthly, no resampling takes place.
func (d Dir) FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...markowitz.Field) (markowitz.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return markowitz.PriceHistory{}, err
	}
	if interval > date.Monthly {
		return markowitz.PriceHistory{}, fmt.Errorf("csv files do not serve %s prices", interval)
	}
	if strings.ContainsAny(symbol, `/\`) {
		return markowitz.PriceHistory{}, fmt.Errorf("invalid symbol %q", symbol)
	}
	f, err := os.Open(d.Path(symbol))
	if errors.Is(err, fs.ErrNotExist) {
		return markowitz.PriceHistory{}, fmt.Errorf("%s: %w", symbol, markowitz.ErrNoData)
	}
	if err != nil {
		return markowitz.PriceHistory{}, err
	}
	defer f.Close()

	obs, err := Read(f)
	if err != nil {
		return markowitz.PriceHistory{}, fmt.Errorf("%s: %w", d.Path(symbol), err)
	}
	obs = slices.DeleteFunc(obs, func(o markowitz.Observation) bool { return !r.Contains(o.Date) })
	if len(obs) == 0 {
		return markowitz.PriceHistory{}, fmt.Errorf("%s in %s: %w", symbol, r, markowitz.ErrNoData)
	}
	return markowitz.NewPriceHistory(obs, fields...), nil
}

// Read decodes observations, sorted by date.
func Read(r io.Reader) ([]markowitz.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, ok := col["date"]
	if !ok {
		return nil, errors.New("missing date column")
	}
	closeCol, ok := col["close"]
	if !ok {
		return nil, errors.New("missing close column")
	}
	openCol, hasOpen := col["open"]

	var obs []markowitz.Observation
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		on, err := date.Parse(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		closeValue, err := decimal.NewFromString(rec[closeCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid close %q: %w", line, rec[closeCol], err)
		}
		openValue := closeValue
		if hasOpen && rec[openCol] != "" {
			if openValue, err = decimal.NewFromString(rec[openCol]); err != nil {
				return nil, fmt.Errorf("line %d: invalid open %q: %w", line, rec[openCol], err)
			}
		}
		obs = append(obs, markowitz.Observation{Date: on, Open: openValue.InexactFloat64(), Close: closeValue.InexactFloat64()})
	}
	slices.SortStableFunc(obs, func(a, b markowitz.Observation) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})
	return obs, nil
}

// Write encodes observations in the format Read decodes.
func Write(w io.Writer, obs []markowitz.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "open", "close"}); err != nil {
		return err
	}
	for _, o := range obs {
		rec := []string{
			o.Date.String(),
			decimal.NewFromFloat(o.Open).String(),
			decimal.NewFromFloat(o.Close).String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes symbol's observations to its file in d, creating d if needed.
func (d Dir) Save(symbol string, obs []markowitz.Observation) error {
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return err
	}
	f, err := os.Create(d.Path(symbol))
	if err != nil {
		return err
	}
	if err := Write(f, obs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
