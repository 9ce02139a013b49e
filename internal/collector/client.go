package collector

import (
	"fmt"
	"sync"
	"time"

	"PeakWatch/internal/model"
)

// Result is the explicit outcome of one fetch. Exactly one of Series or Err
// is meaningful; callers decide what a failure renders as.
type Result struct {
	Series model.PriceSeries
	Err    error
}

// OK reports whether the fetch produced a usable, non-empty series.
func (r Result) OK() bool { return r.Err == nil && !r.Series.Empty() }

// cacheEntry is one cached upstream response.
type cacheEntry struct {
	bars      []model.OHLCV
	fetchedAt time.Time
}

// Client wraps a Fetcher with failure normalization and a time-expiring
// response cache keyed by (fetcher, symbol, window). Any transport or decode
// failure is absorbed into the Result; nothing propagates as a fault.
type Client struct {
	fetcher Fetcher
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

// NewClient creates a caching client. A non-positive ttl disables caching.
func NewClient(fetcher Fetcher, ttl time.Duration) *Client {
	return &Client{
		fetcher: fetcher,
		ttl:     ttl,
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Client) cacheKey(symbol string, window model.Lookback) string {
	return fmt.Sprintf("%s|%s|%s", c.fetcher.Name(), symbol, window)
}

// FetchSeries returns the series for a symbol over a lookback window, served
// from cache while the entry is fresh. An empty upstream response is an
// explicit failure, not an empty success.
func (c *Client) FetchSeries(symbol string, window model.Lookback) Result {
	key := c.cacheKey(symbol, window)

	c.mu.Lock()
	entry, ok := c.cache[key]
	now := c.now()
	c.mu.Unlock()

	if ok && c.ttl > 0 && now.Sub(entry.fetchedAt) < c.ttl {
		return Result{Series: model.PriceSeries{
			Symbol:    symbol,
			Window:    window,
			Bars:      entry.bars,
			FetchedAt: entry.fetchedAt,
		}}
	}

	bars, err := c.fetcher.FetchSeries(symbol, window)
	if err != nil {
		return Result{Err: fmt.Errorf("fetch %s (%s): %w", symbol, window, err)}
	}
	if len(bars) == 0 {
		return Result{Err: fmt.Errorf("fetch %s (%s): no rows", symbol, window)}
	}

	fetchedAt := c.now()
	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[key] = cacheEntry{bars: bars, fetchedAt: fetchedAt}
		c.mu.Unlock()
	}

	return Result{Series: model.PriceSeries{
		Symbol:    symbol,
		Window:    window,
		Bars:      bars,
		FetchedAt: fetchedAt,
	}}
}

// Source returns the name of the underlying fetcher.
func (c *Client) Source() string { return c.fetcher.Name() }
