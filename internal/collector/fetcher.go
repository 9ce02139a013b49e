package collector

import "PeakWatch/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchSeries(symbol string, window model.Lookback) ([]model.OHLCV, error)
	Name() string
}
