package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// periods maps a sampling interval to the API period parameter.
var periods = map[date.Period]string{
	date.Daily:   "d",
	date.Weekly:  "w",
	date.Monthly: "m",
}

// FetchHistory returns the open and close prices of symbol within r.
//
// The symbol format is "TICKER.EXCHANGE", e.g. "MCD.US". An unknown ticker or
// an empty response yields markowitz.ErrNoData.
func (c *Client) FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...markowitz.Field) (markowitz.PriceHistory, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-01-01&to=2024-02-01&period=d
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	period, ok := periods[interval]
	if !ok {
		return markowitz.PriceHistory{}, fmt.Errorf("eodhd does not serve %s prices", interval)
	}
	params := url.Values{}
	params.Set("from", r.From.String())
	params.Set("to", r.To.String())
	params.Set("period", period)
	params.Set("order", "a")

	type Info struct {
		Date  date.Date       `json:"date"`
		Open  decimal.Decimal `json:"open"`
		Close decimal.Decimal `json:"close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := c.get(ctx, "/eod/"+url.PathEscape(symbol), params, &content); err != nil {
		if isNotFound(err) {
			return markowitz.PriceHistory{}, fmt.Errorf("%s: %w", symbol, markowitz.ErrNoData)
		}
		return markowitz.PriceHistory{}, err
	}

	obs := make([]markowitz.Observation, 0, len(content))
	for _, info := range content {
		if !r.Contains(info.Date) {
			continue
		}
		obs = append(obs, markowitz.Observation{
			Date:  info.Date,
			Open:  info.Open.InexactFloat64(),
			Close: info.Close.InexactFloat64(),
		})
	}
	if len(obs) == 0 {
		return markowitz.PriceHistory{}, fmt.Errorf("%s in %s: %w", symbol, r, markowitz.ErrNoData)
	}
	c.logger.Debug().Str("symbol", symbol).Int("prices", len(obs)).Msg("history fetched")
	return markowitz.NewPriceHistory(obs, fields...), nil
}

// Exchanges returns a map of MIC to EODHD's internal exchange code.
//
// This is required since EODHD use its own id for exchange places.
func (c *Client) Exchanges(ctx context.Context) (map[string]string, error) {
	// https://eodhd.com/api/exchanges-list/?api_token=demo&fmt=json
	// [
	// {
	// 	"Name": "Frankfurt Exchange",
	// 	"Code": "F",
	// 	"OperatingMIC": "XFRA",
	// 	"Country": "Germany",
	// 	"Currency": "EUR",
	// 	"CountryISO2": "DE",
	// 	"CountryISO3": "DEU"
	//   },

	// the response is a list of exchanges, each with a Code and OperatingMIC
	type Info struct {
		Code         string
		OperatingMIC string // could be a comma separated list of MICs
	}

	content := make([]Info, 0)
	if err := c.get(ctx, "/exchanges-list/", nil, &content); err != nil {
		return nil, err
	}
	result := make(map[string]string)
	for _, info := range content {
		for _, mic := range splitTrim(info.OperatingMIC) {
			result[mic] = info.Code
		}
	}
	return result, nil
}
