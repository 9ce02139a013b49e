package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Lookback is a trailing fetch window expressed in Yahoo range notation.
type Lookback string

const (
	Lookback1d  Lookback = "1d"
	Lookback5d  Lookback = "5d"
	Lookback1mo Lookback = "1mo"
	Lookback3mo Lookback = "3mo"
	Lookback6mo Lookback = "6mo"
	Lookback1y  Lookback = "1y"
	Lookback2y  Lookback = "2y"
)

// Valid reports whether the lookback is one of the supported windows.
func (l Lookback) Valid() bool {
	switch l {
	case Lookback1d, Lookback5d, Lookback1mo, Lookback3mo, Lookback6mo, Lookback1y, Lookback2y:
		return true
	}
	return false
}

// PriceSeries holds raw price data for one symbol over a lookback window.
type PriceSeries struct {
	Symbol    string
	Window    Lookback
	Bars      []OHLCV
	FetchedAt time.Time
}

// Empty reports whether the series carries no bars.
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }
