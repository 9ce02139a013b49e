package calculator

import (
	"errors"

	"PeakWatch/internal/model"
)

// ErrInsufficientData is returned when a series holds fewer bars than the
// calculation requires.
var ErrInsufficientData = errors.New("insufficient data")

// ErrZeroReference is returned when a percentage would be computed against a
// zero reference value. A zero reference high means corrupt upstream data,
// not a valid market state.
var ErrZeroReference = errors.New("zero reference value")

// ReferenceHigh scans all bars' High field and returns the maximum together
// with its timestamp. Ties go to the first (oldest) bar attaining the max.
func ReferenceHigh(bars []model.OHLCV) (model.ReferenceHigh, error) {
	if len(bars) == 0 {
		return model.ReferenceHigh{}, ErrInsufficientData
	}
	best := model.ReferenceHigh{Value: bars[0].High, AchievedOn: bars[0].Time}
	for _, b := range bars[1:] {
		if b.High > best.Value {
			best.Value = b.High
			best.AchievedOn = b.Time
		}
	}
	return best, nil
}

// GapPercent returns the percentage distance of current from reference.
// Non-negative means current is at or above the reference.
func GapPercent(current, reference float64) (float64, error) {
	if reference == 0 {
		return 0, ErrZeroReference
	}
	return (current - reference) / reference * 100, nil
}

// DayChange compares the latest close against the previous one. Requires at
// least two bars.
func DayChange(bars []model.OHLCV) (model.LiveQuote, error) {
	if len(bars) < 2 {
		return model.LiveQuote{}, ErrInsufficientData
	}
	cur := bars[len(bars)-1].Close
	prev := bars[len(bars)-2].Close
	q := model.LiveQuote{
		Current:  cur,
		Previous: prev,
		Change:   cur - prev,
	}
	if prev == 0 {
		return model.LiveQuote{}, ErrZeroReference
	}
	q.ChangePct = q.Change / prev * 100
	return q, nil
}

// LatestClose returns the most recent close in the series.
func LatestClose(bars []model.OHLCV) (float64, error) {
	if len(bars) == 0 {
		return 0, ErrInsufficientData
	}
	return bars[len(bars)-1].Close, nil
}
