package collector

import (
	"time"

	"PeakWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
	BySym map[string][]model.OHLCV
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(symbol string, window model.Lookback) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.BySym != nil {
		return m.BySym[symbol], nil
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.Price, barCountFor(window)), nil
}

func barCountFor(window model.Lookback) int {
	switch window {
	case model.Lookback1d:
		return 1
	case model.Lookback5d:
		return 5
	case model.Lookback1mo:
		return 22
	case model.Lookback3mo:
		return 66
	case model.Lookback6mo:
		return 126
	case model.Lookback2y:
		return 504
	default:
		return 252
	}
}

// GenerateMockBars builds a deterministic series drifting around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
