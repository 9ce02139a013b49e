package scheduler

import (
	"context"
	"testing"
	"time"

	"PeakWatch/internal/collector"
	"PeakWatch/internal/config"
	"PeakWatch/internal/model"
)

type captureSink struct {
	snapshots []*model.Snapshot
}

func (c *captureSink) Publish(s *model.Snapshot) {
	c.snapshots = append(c.snapshots, s)
}

type stubResolver struct {
	score model.SentimentScore
	vol   float64
	volOK bool
}

func (r *stubResolver) Resolve(_ context.Context, vol float64, volOK bool) model.SentimentScore {
	r.vol = vol
	r.volOK = volOK
	return r.score
}

func flatBars(n int, high, close float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:  base.AddDate(0, 0, i),
			Open:  close,
			High:  high,
			Low:   close,
			Close: close,
		}
	}
	return bars
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Symbols = []config.TrackedSymbol{
		{Label: "NASDAQ 100", Ticker: "^NDX"},
		{Label: "S&P 500", Ticker: "^GSPC"},
		{Label: "Dow Jones", Ticker: "^DJI"},
	}
	cfg.Volatility = config.TrackedSymbol{Label: "VIX", Ticker: "^VIX"}
	cfg.DataSource.Lookback = "1y"
	return cfg
}

func newTestScheduler(mock *collector.MockFetcher, sink Sink, resolver Resolver) *Scheduler {
	client := collector.NewClient(mock, 0)
	return NewScheduler(context.Background(), client, resolver, sink, testConfig())
}

func TestTick_FullSnapshot(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(3, 21500, 21000),
		"^GSPC": flatBars(3, 6100, 5800),
		"^DJI":  flatBars(3, 45000, 44000),
		"^VIX":  flatBars(3, 20, 18),
	}}
	sink := &captureSink{}
	resolver := &stubResolver{score: model.SentimentScore{Score: 60, Label: "Greed", Provenance: model.ProvenancePrimary}}

	newTestScheduler(mock, sink, resolver).Tick()

	if len(sink.snapshots) != 1 {
		t.Fatalf("expected 1 published snapshot, got %d", len(sink.snapshots))
	}
	snap := sink.snapshots[0]
	if len(snap.Indices) != 3 {
		t.Fatalf("expected 3 index metrics, got %d", len(snap.Indices))
	}

	sp := snap.Indices[1]
	if !sp.HasData {
		t.Fatal("expected S&P metric to have data")
	}
	if sp.ReferenceHigh != 6100 {
		t.Errorf("expected reference high 6100, got %.2f", sp.ReferenceHigh)
	}
	wantGap := (5800.0 - 6100.0) / 6100.0 * 100
	if sp.GapPercent != wantGap {
		t.Errorf("expected gap %.4f, got %.4f", wantGap, sp.GapPercent)
	}
	if sp.Up {
		t.Error("below the high should not be marked up")
	}
	if sp.ReferenceDate != "2026-01-01" {
		t.Errorf("unexpected reference date %s", sp.ReferenceDate)
	}

	if !snap.VolatilityOK || snap.Volatility != 18 {
		t.Errorf("expected volatility 18, got %.2f (ok=%v)", snap.Volatility, snap.VolatilityOK)
	}
	if !resolver.volOK || resolver.vol != 18 {
		t.Errorf("resolver should see the tick's volatility, got %.2f (ok=%v)", resolver.vol, resolver.volOK)
	}
	if snap.Sentiment.Label != "Greed" {
		t.Errorf("unexpected sentiment label %s", snap.Sentiment.Label)
	}
}

func TestTick_OneFailedSymbolStillRendersOthers(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX": flatBars(3, 21500, 21000),
		// ^GSPC missing: upstream returned no rows.
		"^DJI": flatBars(3, 45000, 44000),
		"^VIX": flatBars(3, 20, 18),
	}}
	sink := &captureSink{}

	newTestScheduler(mock, sink, &stubResolver{}).Tick()

	snap := sink.snapshots[0]
	if len(snap.Indices) != 3 {
		t.Fatalf("failed symbol must still produce a card, got %d", len(snap.Indices))
	}
	if !snap.Indices[0].HasData || !snap.Indices[2].HasData {
		t.Error("healthy symbols must be unaffected by the failed one")
	}
	failed := snap.Indices[1]
	if failed.HasData {
		t.Error("expected placeholder for failed symbol")
	}
	if failed.Current != 0 || failed.GapPercent != 0 {
		t.Error("placeholder metrics must be zero-valued")
	}
	if failed.ReferenceDate != "N/A" {
		t.Errorf("expected N/A reference date, got %s", failed.ReferenceDate)
	}
}

func TestTick_ZeroReferenceHighRendersPlaceholder(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(3, 0, 0),
		"^GSPC": flatBars(3, 6100, 5800),
		"^DJI":  flatBars(3, 45000, 44000),
		"^VIX":  flatBars(3, 20, 18),
	}}
	sink := &captureSink{}

	newTestScheduler(mock, sink, &stubResolver{}).Tick()

	bad := sink.snapshots[0].Indices[0]
	if bad.HasData {
		t.Error("zero reference high must degrade to a placeholder, not crash")
	}
}

func TestTick_AtTheHighIsUp(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(3, 21000, 21000),
		"^GSPC": flatBars(3, 6100, 5800),
		"^DJI":  flatBars(3, 45000, 44000),
		"^VIX":  flatBars(3, 20, 18),
	}}
	sink := &captureSink{}

	newTestScheduler(mock, sink, &stubResolver{}).Tick()

	at := sink.snapshots[0].Indices[0]
	if at.GapPercent != 0 {
		t.Errorf("expected zero gap at the high, got %.4f", at.GapPercent)
	}
	if !at.Up {
		t.Error("flat gap counts as up")
	}
}

func TestTick_MissingVolatilityReportedToResolver(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(3, 21500, 21000),
		"^GSPC": flatBars(3, 6100, 5800),
		"^DJI":  flatBars(3, 45000, 44000),
	}}
	sink := &captureSink{}
	resolver := &stubResolver{score: model.SentimentScore{Score: 50, Label: "Unavailable", Provenance: model.ProvenancePlaceholder}}

	newTestScheduler(mock, sink, resolver).Tick()

	if resolver.volOK {
		t.Error("resolver must be told volatility is unavailable")
	}
	snap := sink.snapshots[0]
	if snap.VolatilityOK {
		t.Error("snapshot must mark volatility unavailable")
	}
	if snap.Sentiment.Provenance != model.ProvenancePlaceholder {
		t.Errorf("unexpected provenance %s", snap.Sentiment.Provenance)
	}
}

type panickingResolver struct{}

func (panickingResolver) Resolve(context.Context, float64, bool) model.SentimentScore {
	panic("sentiment provider returned garbage")
}

func TestRunNow_RecoversPanickingTick(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(3, 21500, 21000),
		"^GSPC": flatBars(3, 6100, 5800),
		"^DJI":  flatBars(3, 45000, 44000),
		"^VIX":  flatBars(3, 20, 18),
	}}
	sink := &captureSink{}
	sched := newTestScheduler(mock, sink, panickingResolver{})

	// Must not propagate; the process outlives a bad tick.
	sched.RunNow()

	if len(sink.snapshots) != 0 {
		t.Error("a panicked tick must not publish a snapshot")
	}
}

func TestTick_DeterministicAcrossTicks(t *testing.T) {
	mock := &collector.MockFetcher{BySym: map[string][]model.OHLCV{
		"^NDX":  flatBars(5, 21500, 21000),
		"^GSPC": flatBars(5, 6100, 5800),
		"^DJI":  flatBars(5, 45000, 44000),
		"^VIX":  flatBars(5, 20, 18),
	}}
	sink := &captureSink{}
	sched := newTestScheduler(mock, sink, &stubResolver{})

	sched.Tick()
	sched.Tick()

	first, second := sink.snapshots[0], sink.snapshots[1]
	for i := range first.Indices {
		if first.Indices[i] != second.Indices[i] {
			t.Errorf("metric %d differs across ticks with identical upstream data:\n%+v\n%+v",
				i, first.Indices[i], second.Indices[i])
		}
	}
	if first.Volatility != second.Volatility {
		t.Error("volatility differs across identical ticks")
	}
}
