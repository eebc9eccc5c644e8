package strategy

import (
	"testing"

	"backtest-engine/src/tickengine"
	"backtest-engine/src/types"
)

func TestMomentumStaysFlatUntilWindowFills(t *testing.T) {
	e := tickengine.New()
	m := NewMomentum(5, 10)
	e.AddStrategy(m)

	for i := 0; i < 4; i++ {
		e.ProcessTick(types.Tick{Symbol: "AAPL", Price: types.Price(1000000 + i), Timestamp: types.Timestamp(i + 1)})
	}

	if e.GetStats().OrdersSubmitted != 0 {
		t.Errorf("expected no orders before the moving-average window fills, got %d", e.GetStats().OrdersSubmitted)
	}
}

func TestMomentumBuysOnUpwardBreakout(t *testing.T) {
	e := tickengine.New()
	m := NewMomentum(3, 10)
	e.AddStrategy(m)

	ticks := []types.Price{1000000, 1000000, 1000000, 1200000}
	for i, p := range ticks {
		e.ProcessTick(types.Tick{Symbol: "AAPL", Price: p, Timestamp: types.Timestamp(i + 1)})
	}

	book, ok := e.GetOrderBook("AAPL")
	if !ok {
		t.Fatal("expected a book to exist for AAPL")
	}
	if book.BidVolume() == 0 {
		t.Error("expected a resting buy order after an upward breakout")
	}
}

func TestMarketMakerQuotesEveryTenthTick(t *testing.T) {
	e := tickengine.New()
	mm := NewMarketMaker(100, 50, 500)
	e.AddStrategy(mm)

	for i := 0; i < 9; i++ {
		e.ProcessTick(types.Tick{Symbol: "AAPL", Price: 1000000, Timestamp: types.Timestamp(i + 1)})
	}
	if e.GetStats().OrdersSubmitted != 0 {
		t.Fatalf("expected no quotes before the 10th tick, got %d", e.GetStats().OrdersSubmitted)
	}

	e.ProcessTick(types.Tick{Symbol: "AAPL", Price: 1000000, Timestamp: 10})
	if e.GetStats().OrdersSubmitted != 2 {
		t.Errorf("expected a bid and an ask quote on the 10th tick, got %d orders", e.GetStats().OrdersSubmitted)
	}
}

func TestMarketMakerBacksOffBeyondPositionCap(t *testing.T) {
	mm := NewMarketMaker(100, 50, 500)
	mm.position = 500
	mm.tickCount = 9 // the next tick is the tenth, when quotes go out

	e := tickengine.New()
	e.AddStrategy(mm)
	e.ProcessTick(types.Tick{Symbol: "AAPL", Price: 1000000, Timestamp: 10})

	book, _ := e.GetOrderBook("AAPL")
	if book.BidVolume() != 0 {
		t.Error("expected no new bid once position is at the cap")
	}
	if book.AskVolume() != 50 {
		t.Error("expected the ask side to still quote")
	}
}
