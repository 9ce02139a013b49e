package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"PeakWatch/internal/calculator"
	"PeakWatch/internal/collector"
	"PeakWatch/internal/config"
	"PeakWatch/internal/model"

	"github.com/robfig/cron/v3"
)

// Sink receives one snapshot per completed tick.
type Sink interface {
	Publish(*model.Snapshot)
}

// Resolver produces a sentiment score for the tick. It must never fail.
type Resolver interface {
	Resolve(ctx context.Context, vol float64, volOK bool) model.SentimentScore
}

// naDate is the placeholder shown when a reference date is unavailable.
const naDate = "N/A"

// volatilityWindow only needs the latest close, so a short window keeps the
// fetch cheap and gives it its own cache key.
const volatilityWindow = model.Lookback5d

// Scheduler drives the periodic fetch-derive-publish cycle.
type Scheduler struct {
	Cron     *cron.Cron
	Client   *collector.Client
	Resolver Resolver
	Sink     Sink
	Ctx      context.Context

	symbols    []config.TrackedSymbol
	volatility config.TrackedSymbol
	lookback   model.Lookback
}

// NewScheduler creates a new Scheduler. Slow ticks are skipped rather than
// queued, so one stuck upstream call never piles work onto the next tick,
// and a panicking tick is logged and recovered rather than killing the
// process.
func NewScheduler(ctx context.Context, client *collector.Client, resolver Resolver, sink Sink, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.Recover(cron.PrintfLogger(log.Default())),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		Client:     client,
		Resolver:   resolver,
		Sink:       sink,
		Ctx:        ctx,
		symbols:    cfg.Symbols,
		volatility: cfg.Volatility,
		lookback:   cfg.Lookback(),
	}
}

// Register schedules the refresh tick at the given interval.
func (s *Scheduler) Register(interval time.Duration) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.Cron.AddFunc(spec, s.Tick); err != nil {
		return fmt.Errorf("register refresh tick: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one tick immediately so the dashboard is populated before
// the first interval elapses. Unlike scheduled ticks it does not pass through
// the cron chain, so it carries its own recovery.
func (s *Scheduler) RunNow() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] refresh tick panicked: %v", r)
		}
	}()
	s.Tick()
}

// Tick performs one full refresh pass: every tracked symbol, the volatility
// scalar, exactly one sentiment resolution, then a snapshot publish. A failed
// symbol degrades to a placeholder card; it never aborts the tick.
func (s *Scheduler) Tick() {
	snap := &model.Snapshot{GeneratedAt: time.Now()}

	for _, sym := range s.symbols {
		res := s.Client.FetchSeries(sym.Ticker, s.lookback)
		snap.Indices = append(snap.Indices, s.buildMetric(sym, res))
	}

	volRes := s.Client.FetchSeries(s.volatility.Ticker, volatilityWindow)
	if volRes.OK() {
		if v, err := calculator.LatestClose(volRes.Series.Bars); err == nil {
			snap.Volatility = v
			snap.VolatilityOK = true
		}
	} else {
		log.Printf("[WARN] volatility fetch failed: %v", volRes.Err)
	}

	snap.Sentiment = s.Resolver.Resolve(s.Ctx, snap.Volatility, snap.VolatilityOK)

	s.Sink.Publish(snap)
}

// buildMetric derives the per-symbol card record. Failures of any kind
// produce a zero-valued placeholder; the decision of what counts as a
// failure lives here, not in the client.
func (s *Scheduler) buildMetric(sym config.TrackedSymbol, res collector.Result) model.IndexMetric {
	metric := model.IndexMetric{
		Label:         sym.Label,
		Symbol:        sym.Ticker,
		ReferenceDate: naDate,
	}

	if !res.OK() {
		log.Printf("[WARN] %s: fetch failed: %v", sym.Ticker, res.Err)
		return metric
	}
	bars := res.Series.Bars

	ref, err := calculator.ReferenceHigh(bars)
	if err != nil {
		log.Printf("[WARN] %s: reference high: %v", sym.Ticker, err)
		return metric
	}
	current, err := calculator.LatestClose(bars)
	if err != nil {
		log.Printf("[WARN] %s: latest close: %v", sym.Ticker, err)
		return metric
	}
	gap, err := calculator.GapPercent(current, ref.Value)
	if err != nil {
		// Zero reference means corrupt upstream data; render a placeholder.
		log.Printf("[WARN] %s: gap percent: %v", sym.Ticker, err)
		return metric
	}

	metric.Current = current
	metric.ReferenceHigh = ref.Value
	metric.ReferenceDate = ref.AchievedOn.Format("2006-01-02")
	metric.GapPercent = gap
	metric.Up = gap >= 0
	metric.HasData = true

	// Day change needs two bars; a one-bar series still renders the gap card.
	if quote, err := calculator.DayChange(bars); err == nil {
		metric.Change = quote.Change
		metric.ChangePct = quote.ChangePct
	}

	return metric
}
