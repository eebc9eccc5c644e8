package tests

import (
	"testing"

	"backtest-engine/src/market"
	"backtest-engine/src/monitor"
	"backtest-engine/src/strategy"
	"backtest-engine/src/tickengine"
)

// TestFullBacktestIsDeterministic runs the synthetic tick stream
// through a full engine with both reference strategies twice and
// checks the run produces identical results, the same guarantee
// main.go relies on for reproducible backtests.
func TestFullBacktestIsDeterministic(t *testing.T) {
	run := func() tickengine.Stats {
		ticks := market.Synthetic(5000)
		e := tickengine.New()
		e.AddStrategy(strategy.NewMomentum(20, 100))
		e.AddStrategy(strategy.NewMarketMaker(100, 50, 500))
		e.RunBacktest(ticks)
		return e.GetStats()
	}

	a, b := run(), run()
	// TotalLatencyNs is measured from the wall clock and differs between
	// runs; every other counter must match exactly.
	a.TotalLatencyNs, b.TotalLatencyNs = 0, 0
	if a != b {
		t.Fatalf("expected identical stats across runs, got %+v vs %+v", a, b)
	}
	if a.TicksProcessed != 5000 {
		t.Errorf("expected 5000 ticks processed, got %d", a.TicksProcessed)
	}
	if a.TradesExecuted == 0 {
		t.Error("expected at least one trade across a 5000-tick synthetic run with both strategies active")
	}
}

// TestPublishedSnapshotMatchesEngineAfterRun exercises the same
// progress-reporting path main.go uses to feed the monitor server,
// checking the final published snapshot agrees with the engine's own
// stats once the run completes.
func TestPublishedSnapshotMatchesEngineAfterRun(t *testing.T) {
	ticks := market.Synthetic(2000)
	e := tickengine.New()
	e.AddStrategy(strategy.NewMomentum(20, 100))

	publisher := monitor.NewPublisher("test-run")

	var lastPublished tickengine.Stats
	e.RunBacktestWithProgress(ticks, 500, func(stats tickengine.Stats) {
		_, books := e.Snapshot(10)
		publisher.Publish(stats, books)
		lastPublished = stats
	})

	if e.GetStats().TicksProcessed != 2000 {
		t.Fatalf("expected 2000 ticks processed, got %d", e.GetStats().TicksProcessed)
	}
	if lastPublished != e.GetStats() {
		t.Errorf("expected final published stats %+v to match engine stats %+v", lastPublished, e.GetStats())
	}
}

// TestCSVFallbackProducesSyntheticStream checks the same fallback
// main.go relies on when no CSV path is given or the file is
// unreadable.
func TestCSVFallbackProducesSyntheticStream(t *testing.T) {
	ticks := market.LoadCSV("/nonexistent/path/does-not-exist.csv")
	if len(ticks) != market.DefaultSyntheticCount {
		t.Errorf("expected synthetic fallback of %d ticks, got %d", market.DefaultSyntheticCount, len(ticks))
	}
}
