// Package strategy holds the two reference strategies used to
// exercise the tickengine.Strategy contract: a moving-average
// momentum strategy and a market-maker. Neither is part of the
// matching core — they're example clients, grounded on
// original_source/strategies/momentum_strategy.hpp.
package strategy

import (
	"backtest-engine/src/tickengine"
	"backtest-engine/src/types"
)

// Momentum buys when price crosses a 2% band above its moving average
// and sells when it crosses 2% below, flattening any opposing
// position first.
type Momentum struct {
	windowSize int
	orderSize  types.Quantity

	prices      []types.Price
	position    int64
	entryPrice  types.Price
	totalPnL    int64
	tradesCount int
}

// NewMomentum creates a momentum strategy with the given moving
// average window and per-signal order size.
func NewMomentum(windowSize int, orderSize types.Quantity) *Momentum {
	if windowSize <= 0 {
		windowSize = 20
	}
	if orderSize <= 0 {
		orderSize = 100
	}
	return &Momentum{windowSize: windowSize, orderSize: orderSize}
}

func (m *Momentum) Name() string { return "MomentumStrategy" }

func (m *Momentum) Position() int64 { return m.position }
func (m *Momentum) PnL() int64      { return m.totalPnL }
func (m *Momentum) Trades() int     { return m.tradesCount }

func (m *Momentum) OnTick(tick types.Tick, engine tickengine.EngineHandle) {
	m.prices = append(m.prices, tick.Price)
	if len(m.prices) > m.windowSize {
		m.prices = m.prices[1:]
	}
	if len(m.prices) < m.windowSize {
		return
	}

	var sum types.Price
	for _, p := range m.prices {
		sum += p
	}
	ma := sum / types.Price(len(m.prices))

	buyThreshold := ma * 102 / 100
	sellThreshold := ma * 98 / 100
	current := tick.Price

	switch {
	case current > buyThreshold && m.position <= 0:
		if m.position < 0 {
			engine.SubmitOrder(types.Order{
				Symbol: tick.Symbol, Side: types.Buy, Type: types.Limit,
				Price: current, Quantity: types.Quantity(-m.position), UserId: 1,
			})
		}
		engine.SubmitOrder(types.Order{
			Symbol: tick.Symbol, Side: types.Buy, Type: types.Limit,
			Price: current, Quantity: m.orderSize, UserId: 1,
		})
	case current < sellThreshold && m.position >= 0:
		if m.position > 0 {
			engine.SubmitOrder(types.Order{
				Symbol: tick.Symbol, Side: types.Sell, Type: types.Limit,
				Price: current, Quantity: types.Quantity(m.position), UserId: 1,
			})
		}
		engine.SubmitOrder(types.Order{
			Symbol: tick.Symbol, Side: types.Sell, Type: types.Limit,
			Price: current, Quantity: m.orderSize, UserId: 1,
		})
	}
}

// OnTrade counts every trade the engine reports and accrues PnL
// against the current position and entry price. Trades aren't
// attributed to order ownership, so this is an approximation, not a
// ledger; OnTrade does not change position or entryPrice, and nothing
// else in this type does either, so both stay zero and no PnL accrues.
func (m *Momentum) OnTrade(trade types.Trade) {
	m.tradesCount++

	switch {
	case m.position > 0:
		m.totalPnL += int64(trade.Price-m.entryPrice) * int64(trade.Quantity)
	case m.position < 0:
		m.totalPnL += int64(m.entryPrice-trade.Price) * int64(trade.Quantity)
	}
}
