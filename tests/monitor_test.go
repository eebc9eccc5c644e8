package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"backtest-engine/src/market"
	"backtest-engine/src/models"
	"backtest-engine/src/monitor"
	"backtest-engine/src/strategy"
	"backtest-engine/src/tickengine"
)

func TestMonitorHealthEndpoint(t *testing.T) {
	os.Setenv("RATE_LIMIT_DISABLED", "1")
	defer os.Unsetenv("RATE_LIMIT_DISABLED")

	publisher := monitor.NewPublisher("test-run")
	app := monitor.NewServer(publisher)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.RunID != "test-run" {
		t.Errorf("expected run_id test-run, got %s", health.RunID)
	}
}

func TestMonitorMetricsReflectsPublishedStats(t *testing.T) {
	os.Setenv("RATE_LIMIT_DISABLED", "1")
	defer os.Unsetenv("RATE_LIMIT_DISABLED")

	publisher := monitor.NewPublisher("test-run")
	app := monitor.NewServer(publisher)

	ticks := market.Synthetic(1000)
	e := tickengine.New()
	e.AddStrategy(strategy.NewMomentum(20, 100))
	e.RunBacktest(ticks)
	_, books := e.Snapshot(10)
	publisher.Publish(e.GetStats(), books)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var metrics models.MetricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if metrics.TicksProcessed != 1000 {
		t.Errorf("expected 1000 ticks processed, got %d", metrics.TicksProcessed)
	}
}

func TestMonitorOrderBookUnknownSymbolReturns404(t *testing.T) {
	os.Setenv("RATE_LIMIT_DISABLED", "1")
	defer os.Unsetenv("RATE_LIMIT_DISABLED")

	publisher := monitor.NewPublisher("test-run")
	app := monitor.NewServer(publisher)

	req := httptest.NewRequest(http.MethodGet, "/orderbook/GOOGL", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unpublished symbol, got %d", resp.StatusCode)
	}
}

func TestMonitorOrderBookReturnsPublishedLevels(t *testing.T) {
	os.Setenv("RATE_LIMIT_DISABLED", "1")
	defer os.Unsetenv("RATE_LIMIT_DISABLED")

	publisher := monitor.NewPublisher("test-run")
	app := monitor.NewServer(publisher)

	ticks := market.Synthetic(500)
	e := tickengine.New()
	e.AddStrategy(strategy.NewMarketMaker(100, 50, 500))
	e.RunBacktest(ticks)
	_, books := e.Snapshot(10)
	publisher.Publish(e.GetStats(), books)

	req := httptest.NewRequest(http.MethodGet, "/orderbook/AAPL", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var ob models.OrderBookResponse
	if err := json.NewDecoder(resp.Body).Decode(&ob); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if ob.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", ob.Symbol)
	}
}
