package calculator

import (
	"errors"
	"testing"
	"time"

	"PeakWatch/internal/model"
)

func bar(day int, high, close float64) model.OHLCV {
	return model.OHLCV{
		Time:  time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Open:  close,
		High:  high,
		Low:   close * 0.99,
		Close: close,
	}
}

func TestReferenceHigh_FindsMax(t *testing.T) {
	bars := []model.OHLCV{bar(1, 100, 99), bar(2, 150, 148), bar(3, 120, 119)}
	ref, err := ReferenceHigh(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Value != 150 {
		t.Errorf("expected high 150, got %.2f", ref.Value)
	}
	if !ref.AchievedOn.Equal(bars[1].Time) {
		t.Errorf("expected achieved_on %v, got %v", bars[1].Time, ref.AchievedOn)
	}
}

func TestReferenceHigh_TieGoesToFirst(t *testing.T) {
	bars := []model.OHLCV{bar(1, 150, 149), bar(2, 150, 148), bar(3, 120, 119)}
	ref, err := ReferenceHigh(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.AchievedOn.Equal(bars[0].Time) {
		t.Errorf("tie should resolve to first occurrence, got %v", ref.AchievedOn)
	}
}

func TestReferenceHigh_EmptySeries(t *testing.T) {
	if _, err := ReferenceHigh(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestGapPercent(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		reference float64
		want      float64
		wantErr   error
	}{
		{"below high", 95, 100, -5.0, nil},
		{"above high", 110, 100, 10.0, nil},
		{"at the high", 6000, 6000, 0, nil},
		{"zero reference", 100, 0, 0, ErrZeroReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GapPercent(tt.current, tt.reference)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestGapPercent_Deterministic(t *testing.T) {
	first, err := GapPercent(5823.52, 6099.97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _ := GapPercent(5823.52, 6099.97)
		if again != first {
			t.Fatalf("call %d returned %.10f, first call returned %.10f", i, again, first)
		}
	}
}

func TestDayChange(t *testing.T) {
	bars := []model.OHLCV{bar(1, 101, 100), bar(2, 103, 102)}
	q, err := DayChange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Change != 2 {
		t.Errorf("expected change 2, got %.2f", q.Change)
	}
	if q.ChangePct != 2 {
		t.Errorf("expected change_pct 2%%, got %.4f", q.ChangePct)
	}
}

func TestDayChange_InsufficientData(t *testing.T) {
	if _, err := DayChange([]model.OHLCV{bar(1, 101, 100)}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for single bar, got %v", err)
	}
	if _, err := DayChange(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for empty series, got %v", err)
	}
}

func TestLatestClose(t *testing.T) {
	bars := []model.OHLCV{bar(1, 20, 18.5), bar(2, 19, 17.2)}
	v, err := LatestClose(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 17.2 {
		t.Errorf("expected 17.2, got %.2f", v)
	}
	if _, err := LatestClose(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
