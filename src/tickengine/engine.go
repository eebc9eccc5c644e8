// Package tickengine drives an event-driven backtest: it replays a
// tick stream, maintains one order book per symbol, and fans ticks
// and trades out to registered strategies. Grounded on the original
// TickEngine (tick_engine.cpp/.hpp).
package tickengine

import (
	"time"

	"backtest-engine/src/arena"
	"backtest-engine/src/book"
	"backtest-engine/src/types"
)

// EngineHandle is the capability a strategy receives during OnTick:
// enough to submit orders, not enough to touch the book map or the
// strategy list directly.
type EngineHandle interface {
	SubmitOrder(template types.Order) types.OrderId
}

// Strategy is the polymorphic sink for tick and trade notifications.
// Implementations may submit zero or more orders from OnTick; OnTrade
// must not call SubmitOrder (see DESIGN.md).
type Strategy interface {
	OnTick(tick types.Tick, engine EngineHandle)
	OnTrade(trade types.Trade)
	Name() string
}

// Stats are the engine's read-only run counters.
type Stats struct {
	TicksProcessed  uint64
	OrdersSubmitted uint64
	TradesExecuted  uint64
	TotalLatencyNs  uint64
}

// AvgLatencyUs returns the mean per-tick processing latency in
// microseconds, or 0 before any tick has been processed.
func (s Stats) AvgLatencyUs() float64 {
	if s.TicksProcessed == 0 {
		return 0
	}
	return (float64(s.TotalLatencyNs) / float64(s.TicksProcessed)) / 1000.0
}

// Engine is the top-level dispatcher: it owns the arena, the
// per-symbol books, and the strategy list.
type Engine struct {
	arena       *arena.Arena
	books       map[string]*book.OrderBook
	strategies  []Strategy
	nextOrderId types.OrderId
	currentTime types.Timestamp
	stats       Stats
}

// New creates an engine with an empty book map and a fresh arena.
func New() *Engine {
	return &Engine{
		arena:       arena.New(arena.DefaultBlockSize),
		books:       make(map[string]*book.OrderBook),
		nextOrderId: 1,
	}
}

// AddStrategy appends a strategy to the dispatch list. Strategies
// added later only see ticks processed afterward.
func (e *Engine) AddStrategy(s Strategy) {
	e.strategies = append(e.strategies, s)
}

// GetOrderBook returns the book for symbol, if one has been created.
func (e *Engine) GetOrderBook(symbol string) (*book.OrderBook, bool) {
	b, ok := e.books[symbol]
	return b, ok
}

// GetStats returns a snapshot of the engine's run counters.
func (e *Engine) GetStats() Stats {
	return e.stats
}

// ProcessTick advances the engine's notion of current time, ensures a
// book exists for the tick's symbol, and fans the tick out to every
// strategy in registration order. Strategies may call SubmitOrder
// synchronously; any resulting trades fire through OnTrade before the
// next strategy's OnTick begins.
func (e *Engine) ProcessTick(tick types.Tick) {
	start := time.Now()

	e.currentTime = tick.Timestamp
	e.getOrCreateBook(tick.Symbol)

	for _, s := range e.strategies {
		s.OnTick(tick, e)
	}

	latency := time.Since(start)
	e.stats.TicksProcessed++
	e.stats.TotalLatencyNs += uint64(latency.Nanoseconds())
}

// SubmitOrder allocates an order from the arena, stamps it with the
// next monotonic id and the engine's current time, and dispatches it
// to the book for its symbol, returning the assigned id. A template
// with an empty Symbol is routed to a book keyed by the empty string.
func (e *Engine) SubmitOrder(template types.Order) types.OrderId {
	order := e.arena.Allocate()
	*order = template
	order.Id = e.nextOrderId
	e.nextOrderId++
	order.Timestamp = e.currentTime
	order.Filled = 0
	order.InitialQuantity = template.Quantity
	order.Status = types.Pending

	b := e.getOrCreateBook(order.Symbol)
	b.AddOrder(order)
	e.stats.OrdersSubmitted++
	return order.Id
}

// RunBacktest processes every tick in order.
func (e *Engine) RunBacktest(ticks []types.Tick) {
	for _, tick := range ticks {
		e.ProcessTick(tick)
	}
}

// RunBacktestWithProgress behaves like RunBacktest but additionally
// invokes report with a stats snapshot every `every` ticks, and once
// more after the final tick. report runs synchronously on the same
// goroutine between ticks, so it may safely call back into Snapshot
// without racing the matching core; it should not call SubmitOrder.
func (e *Engine) RunBacktestWithProgress(ticks []types.Tick, every int, report func(Stats)) {
	if every <= 0 {
		every = len(ticks) + 1
	}
	for i, tick := range ticks {
		e.ProcessTick(tick)
		if report != nil && (i+1)%every == 0 {
			report(e.stats)
		}
	}
	if report != nil {
		report(e.stats)
	}
}

// BookSnapshot is a read-only, depth-limited view of one symbol's
// resting orders, safe to hand to a reader goroutine.
type BookSnapshot struct {
	Symbol string
	Bids   []types.PriceLevel
	Asks   []types.PriceLevel
}

// Snapshot copies the engine's current stats and, per symbol, the top
// depth price levels of its book. Intended to be called from the
// driving goroutine (e.g. from a RunBacktestWithProgress callback) and
// the result handed off to a separate reader, such as the monitor
// server.
func (e *Engine) Snapshot(depth int) (Stats, []BookSnapshot) {
	books := make([]BookSnapshot, 0, len(e.books))
	for symbol, b := range e.books {
		bids, asks := b.Snapshot(depth)
		books = append(books, BookSnapshot{Symbol: symbol, Bids: bids, Asks: asks})
	}
	return e.stats, books
}

func (e *Engine) getOrCreateBook(symbol string) *book.OrderBook {
	b, ok := e.books[symbol]
	if ok {
		return b
	}
	b = book.New(symbol)
	b.SetTradeCallback(e.onTrade)
	e.books[symbol] = b
	return b
}

// onTrade is the book -> engine callback wired in at book creation.
// It increments the trade counter before fanning the trade out to
// every strategy, per spec.md's ordering guarantee.
func (e *Engine) onTrade(trade types.Trade) {
	e.stats.TradesExecuted++
	for _, s := range e.strategies {
		s.OnTrade(trade)
	}
}
