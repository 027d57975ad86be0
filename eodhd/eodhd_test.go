package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eodPayload = `[
	{"date":"2024-02-12","open":10.0,"high":11,"low":9,"close":10.5,"adjusted_close":10.5,"volume":100},
	{"date":"2024-02-13","open":10.5,"high":11,"low":9,"close":"10.8","adjusted_close":10.8,"volume":100},
	{"date":"2024-02-14","open":10.8,"high":11,"low":9,"close":10.2,"adjusted_close":10.2,"volume":100}
]`

var febRange = date.Range{From: date.New(2024, time.February, 12), To: date.New(2024, time.February, 14)}

func newServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/eod/MCD.US", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_token"))
		assert.Equal(t, "json", q.Get("fmt"))
		assert.Equal(t, "2024-02-12", q.Get("from"))
		assert.Equal(t, "2024-02-14", q.Get("to"))
		assert.NotEmpty(t, q.Get("period"))
		w.Write([]byte(eodPayload))
	})
	mux.HandleFunc("/eod/EMPTY.US", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/eod/FAIL.US", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/exchanges-list/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Code":"US","OperatingMIC":"XNYS, XNAS"},{"Code":"F","OperatingMIC":"XFRA"}]`))
	})
	mux.HandleFunc("/search/mcdonald", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Code":"MCD","Exchange":"US","Name":"McDonald's Corp","Currency":"USD","ISIN":"US5801351017","previousClose":290.1,"previousCloseDate":"2024-02-14"},
		{"Code":"MDO","Exchange":"XETRA","Name":"McDonald's Corp","Currency":"EUR","previousCloseDate":""}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchHistory(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	h, err := c.FetchHistory(context.Background(), "MCD.US", febRange, date.Daily, markowitz.Open, markowitz.Close)
	require.NoError(t, err)

	closes := h.Closes()
	require.Equal(t, 3, closes.Len())
	v, ok := closes.Get(date.New(2024, time.February, 13))
	require.True(t, ok)
	assert.Equal(t, 10.8, v)

	open, ok := h[markowitz.Open].Get(date.New(2024, time.February, 14))
	require.True(t, ok)
	assert.Equal(t, 10.8, open)
}

func TestClient_FetchHistory_CloseOnly(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	h, err := c.FetchHistory(context.Background(), "MCD.US", febRange, date.Weekly, markowitz.Close)
	require.NoError(t, err)
	_, ok := h[markowitz.Open]
	assert.False(t, ok)
	assert.Equal(t, 3, h.Closes().Len())
}

func TestClient_FetchHistory_Errors(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := NewClient("test-key", WithBaseURL(srv.URL))
	ctx := context.Background()

	tests := []struct {
		name     string
		symbol   string
		interval date.Period
		noData   bool
	}{
		{"empty", "EMPTY.US", date.Daily, true},
		{"not found", "NOPE.US", date.Daily, true},
		{"server error", "FAIL.US", date.Daily, false},
		{"unsupported interval", "MCD.US", date.Quarterly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := c.FetchHistory(ctx, tt.symbol, febRange, tt.interval)
			require.Error(t, err)
			assert.Empty(t, h)
			assert.Equal(t, tt.noData, errors.Is(err, markowitz.ErrNoData), "error %v", err)
			assert.NotContains(t, err.Error(), "test-key")
		})
	}
}

func TestClient_Cache(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	dir := t.TempDir()
	c := NewClient("test-key", WithBaseURL(srv.URL), WithCacheDir(dir), WithRateLimit(100))

	for range 3 {
		h, err := c.FetchHistory(context.Background(), "MCD.US", febRange, date.Daily)
		require.NoError(t, err)
		assert.Equal(t, 3, h.Closes().Len())
	}
	assert.Equal(t, int32(1), calls.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// errors are not cached.
	for range 2 {
		_, err := c.FetchHistory(context.Background(), "FAIL.US", febRange, date.Daily)
		require.Error(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Cancelled(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchHistory(ctx, "MCD.US", febRange, date.Daily)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestClient_Search(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := NewClient("test-key", WithBaseURL(srv.URL))

	results, err := c.Search(context.Background(), "mcdonald")
	require.NoError(t, err)

	// MCD.US is listed on two MICs, MDO.XETRA on none known.
	require.Len(t, results, 3)
	assert.Equal(t, "MCD.US", results[0].Symbol())
	assert.Equal(t, "XNAS", results[0].MIC)
	assert.Equal(t, "XNYS", results[1].MIC)
	assert.Equal(t, date.New(2024, time.February, 14), results[0].PreviousCloseDate)
	assert.Equal(t, "MDO.XETRA", results[2].Symbol())
	assert.Empty(t, results[2].MIC)
	assert.True(t, results[2].PreviousCloseDate.IsZero())
}

func TestLiveDemo(t *testing.T) {
	if testing.Short() || os.Getenv("EODHD_LIVE") == "" {
		t.Skip("set EODHD_LIVE=1 to query eodhd.com with the demo key")
	}
	c := NewClient(DemoKey)
	today := date.Today()
	h, err := c.FetchHistory(context.Background(), "MCD.US", date.Range{From: today.Add(-10), To: today.Add(-1)}, date.Daily)
	if err != nil {
		t.Fatalf("FetchHistory() unexpected error = %v", err)
	}
	if h.Closes().Len() == 0 {
		t.Error("FetchHistory() no prices returned")
	}
}
