package strategy

import (
	"backtest-engine/src/tickengine"
	"backtest-engine/src/types"
)

// MarketMaker quotes both sides of the book around the last tick
// price every tenth tick, backing off a side once the position has
// reached the cap in that direction.
type MarketMaker struct {
	spread      types.Price
	quoteSize   types.Quantity
	maxPosition int64

	position   int64
	tickCount  uint64
	tradeCount int
	totalPnL   int64
}

// NewMarketMaker creates a market maker quoting at spread/2 either
// side of the mid, quoteSize per side, backing off beyond
// maxPosition.
func NewMarketMaker(spread types.Price, quoteSize types.Quantity, maxPosition int64) *MarketMaker {
	if spread <= 0 {
		spread = 100
	}
	if quoteSize <= 0 {
		quoteSize = 50
	}
	if maxPosition <= 0 {
		maxPosition = 500
	}
	return &MarketMaker{spread: spread, quoteSize: quoteSize, maxPosition: maxPosition}
}

func (mm *MarketMaker) Name() string { return "MarketMaker" }

func (mm *MarketMaker) Position() int64 { return mm.position }
func (mm *MarketMaker) Trades() int     { return mm.tradeCount }
func (mm *MarketMaker) PnL() int64      { return mm.totalPnL }

func (mm *MarketMaker) OnTick(tick types.Tick, engine tickengine.EngineHandle) {
	mm.tickCount++
	if mm.tickCount%10 != 0 {
		return
	}

	mid := tick.Price
	canBuy := mm.position < mm.maxPosition
	canSell := mm.position > -mm.maxPosition

	if canBuy {
		engine.SubmitOrder(types.Order{
			Symbol: tick.Symbol, Side: types.Buy, Type: types.Limit,
			Price: mid - mm.spread/2, Quantity: mm.quoteSize, UserId: 2,
		})
	}
	if canSell {
		engine.SubmitOrder(types.Order{
			Symbol: tick.Symbol, Side: types.Sell, Type: types.Limit,
			Price: mid + mm.spread/2, Quantity: mm.quoteSize, UserId: 2,
		})
	}
}

// OnTrade records a simplified spread-capture PnL per fill. Like
// Momentum, this doesn't check order ownership, and it does not change
// position, so the position cap only applies to a position set from
// outside this type.
func (mm *MarketMaker) OnTrade(trade types.Trade) {
	mm.tradeCount++
	mm.totalPnL += int64(mm.spread / 2)
}
