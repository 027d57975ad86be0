// Package eodhd fetches end of day prices from EOD Historical Data.
//
// See https://eodhd.com/financial-apis/api-for-historical-data-and-volumes
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/markowitz/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL of the API.
	DefaultBaseURL = "https://eodhd.com/api"
	// DefaultRateLimit is the default number of requests per second.
	DefaultRateLimit = 10
	// DemoKey is the public key, limited to a few tickers such as MCD.US or AAPL.US.
	DemoKey = "demo"

	defaultTimeout = 30 * time.Second
)

// Client is an EODHD API client. It implements markowitz.HistoryFetcher.
type Client struct {
	baseURL    string
	apiKey     string
	cacheDir   string
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

// WithHTTPClient sets the HTTP client. Its transport is wrapped by the disk
// cache when one is configured.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithCacheDir stores successful responses in dir, for one day.
func WithCacheDir(dir string) ClientOption {
	return func(c *Client) { c.cacheDir = dir }
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

// NewClient returns a client authenticated by apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "eodhd").Logger()
	if c.cacheDir != "" {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client := *c.httpClient
		client.Transport = &diskCache{base: base, dir: c.cacheDir, logger: c.logger, today: date.Today}
		c.httpClient = &client
	}
	return c
}

// APIError is a non 200 response.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eodhd %s: %d %s", e.Endpoint, e.StatusCode, e.Message)
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// get queries path and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("eodhd rate limit: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	c.logger.Debug().Str("path", path).Msg("request")
	return jwget(ctx, c.httpClient, c.baseURL+path+"?"+params.Encode(), path, result)
}
