// Package yahoo fetches historical prices from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL of the chart API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultRateLimit is the default number of requests per second.
	DefaultRateLimit = 2

	userAgent      = "Mozilla/5.0 (compatible; mvo)"
	defaultTimeout = 30 * time.Second
)

/*
	{
	    "chart": {
	        "result": [{
	            "meta": {"currency": "USD", "symbol": "SPY", "gmtoffset": -14400, ...},
	            "timestamp": [1704205800, 1704292200],
	            "indicators": {
	                "quote": [{"open": [472.16, null], "close": [472.65, null], ...}],
	                "adjclose": [...]
	            }
	        }],
	        "error": null
	    }
	}
*/

// Client is a Yahoo Finance client. It implements markowitz.HistoryFetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit sets the number of requests per second.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(requestsPerSecond, 1))
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient returns a client. The chart API needs no credentials.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "yahoo").Logger()
	return c
}

var intervals = map[date.Period]string{
	date.Daily:   "1d",
	date.Weekly:  "1wk",
	date.Monthly: "1mo",
}

// FetchHistory returns the open and close prices of symbol within r.
//
// Periods where Yahoo reports no quote (null values) are skipped.
func (c *Client) FetchHistory(ctx context.Context, symbol string, r date.Range, interval date.Period, fields ...markowitz.Field) (markowitz.PriceHistory, error) {
	iv, ok := intervals[interval]
	if !ok {
		return markowitz.PriceHistory{}, fmt.Errorf("yahoo does not serve %s prices", interval)
	}
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(r.From.Unix(), 10))
	params.Set("period2", strconv.FormatInt(r.To.Add(1).Unix(), 10)) // exclusive
	params.Set("interval", iv)
	params.Set("events", "history")

	jobj, status, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params)
	if err != nil {
		return markowitz.PriceHistory{}, err
	}
	if msg, ok := chartError(jobj); ok {
		if status == http.StatusNotFound || status == http.StatusOK {
			return markowitz.PriceHistory{}, fmt.Errorf("%s: %s: %w", symbol, msg, markowitz.ErrNoData)
		}
		return markowitz.PriceHistory{}, fmt.Errorf("yahoo %s: %d %s", symbol, status, msg)
	}
	if status != http.StatusOK {
		return markowitz.PriceHistory{}, fmt.Errorf("yahoo %s: %d %s", symbol, status, http.StatusText(status))
	}

	obs, err := observations(jobj)
	if errors.Is(err, errNoResult) {
		return markowitz.PriceHistory{}, fmt.Errorf("%s in %s: %w", symbol, r, markowitz.ErrNoData)
	}
	if err != nil {
		return markowitz.PriceHistory{}, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	inRange := obs[:0]
	for _, o := range obs {
		if r.Contains(o.Date) {
			inRange = append(inRange, o)
		}
	}
	if len(inRange) == 0 {
		return markowitz.PriceHistory{}, fmt.Errorf("%s in %s: %w", symbol, r, markowitz.ErrNoData)
	}
	c.logger.Debug().Str("symbol", symbol).Int("prices", len(inRange)).Msg("history fetched")
	return markowitz.NewPriceHistory(inRange, fields...), nil
}

// get returns the decoded JSON body and the status code. Error statuses still
// carry a chart.error body worth decoding.
func (c *Client) get(ctx context.Context, path string, params url.Values) (any, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("yahoo rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	c.logger.Debug().Str("path", path).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot http GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, fmt.Errorf("yahoo %s: %s", path, resp.Status)
		}
		return nil, resp.StatusCode, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return jobj, resp.StatusCode, nil
}

// chartError returns the description of chart.error, if any.
func chartError(jobj any) (string, bool) {
	jval, err := jsonpath.Get("$.chart.error", jobj)
	if err != nil || jval == nil {
		return "", false
	}
	if desc, err := jsonpath.Get("$.chart.error.description", jobj); err == nil {
		if s, ok := desc.(string); ok {
			return s, true
		}
	}
	return fmt.Sprint(jval), true
}

// observations extracts the dated quotes of the first chart result.
func observations(jobj any) ([]markowitz.Observation, error) {
	timestamps, err := list(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, err
	}
	opens, err := list(jobj, "$.chart.result[0].indicators.quote[0].open")
	if err != nil {
		return nil, err
	}
	closes, err := list(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, err
	}
	if len(opens) != len(timestamps) || len(closes) != len(timestamps) {
		return nil, fmt.Errorf("%d timestamps for %d opens and %d closes", len(timestamps), len(opens), len(closes))
	}
	// timestamps are the exchange's session open, shift them to its local day.
	var offset int64
	if jval, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		if v, ok := jval.(float64); ok {
			offset = int64(v)
		}
	}

	obs := make([]markowitz.Observation, 0, len(timestamps))
	for i, ts := range timestamps {
		sec, ok := ts.(float64)
		if !ok {
			return nil, fmt.Errorf("timestamp %d: %v is not a number", i, ts)
		}
		closeValue, ok := closes[i].(float64)
		if !ok {
			continue // null quote
		}
		openValue, ok := opens[i].(float64)
		if !ok {
			openValue = closeValue
		}
		obs = append(obs, markowitz.Observation{
			Date:  date.FromUnix(int64(sec) + offset),
			Open:  openValue,
			Close: closeValue,
		})
	}
	return obs, nil
}

var errNoResult = errors.New("no chart result")

func list(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, errNoResult)
	}
	l, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %v is not a list", path, jval)
	}
	return l, nil
}
