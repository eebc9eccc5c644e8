// Package book implements a single-symbol limit order book with
// price-time priority, grounded on the teacher's btree-backed
// OrderBook/Matcher pair but folded into one type per the matching
// contract: the book matches incoming orders against itself instead
// of delegating to an external matcher.
package book

import (
	"github.com/google/btree"

	"backtest-engine/src/types"
)

// bidItem orders price levels descending (best bid first) by
// inverting the comparison, the same trick the teacher uses for its
// Bids tree.
type bidItem struct {
	level *types.PriceLevel
}

func (b *bidItem) Less(than btree.Item) bool {
	return b.level.Price > than.(*bidItem).level.Price
}

// askItem orders price levels ascending (best ask first).
type askItem struct {
	level *types.PriceLevel
}

func (a *askItem) Less(than btree.Item) bool {
	return a.level.Price < than.(*askItem).level.Price
}

// TradeCallback is invoked once per atomic fill segment.
type TradeCallback func(types.Trade)

type cancelEntry struct {
	side  types.Side
	price types.Price
}

// OrderBook holds resting orders for one symbol.
type OrderBook struct {
	Symbol string

	bids *btree.BTree
	asks *btree.BTree

	index map[types.OrderId]cancelEntry

	tradeCallback TradeCallback
	totalTrades   uint64
}

// New creates an empty book for symbol.
func New(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   btree.New(32),
		asks:   btree.New(32),
		index:  make(map[types.OrderId]cancelEntry),
	}
}

// SetTradeCallback registers the sink invoked once per trade.
func (b *OrderBook) SetTradeCallback(cb TradeCallback) {
	b.tradeCallback = cb
}

// TotalTrades returns the cumulative number of trades this book has
// emitted.
func (b *OrderBook) TotalTrades() uint64 {
	return b.totalTrades
}

// BestBid returns the highest resting buy price, or 0 if there are no
// bids.
func (b *OrderBook) BestBid() types.Price {
	item := b.bids.Min()
	if item == nil {
		return 0
	}
	return item.(*bidItem).level.Price
}

// BestAsk returns the lowest resting sell price, or 0 if there are no
// asks.
func (b *OrderBook) BestAsk() types.Price {
	item := b.asks.Min()
	if item == nil {
		return 0
	}
	return item.(*askItem).level.Price
}

// BidVolume sums total_quantity across every bid level.
func (b *OrderBook) BidVolume() types.Quantity {
	var total types.Quantity
	b.bids.Ascend(func(item btree.Item) bool {
		total += item.(*bidItem).level.TotalQuantity
		return true
	})
	return total
}

// AskVolume sums total_quantity across every ask level.
func (b *OrderBook) AskVolume() types.Quantity {
	var total types.Quantity
	b.asks.Ascend(func(item btree.Item) bool {
		total += item.(*askItem).level.TotalQuantity
		return true
	})
	return total
}

// AddOrder accepts an order whose id, price, quantity, side, type,
// timestamp and user id are populated and whose filled is zero.
// MARKET orders that don't fully fill against resting liquidity are
// cancelled; LIMIT orders that don't fully fill rest in the book.
func (b *OrderBook) AddOrder(order *types.Order) {
	b.match(order)

	if order.Type == types.Market {
		if order.Status != types.Filled {
			order.Status = types.Cancelled
		}
		return
	}

	if order.Status == types.Filled {
		return
	}

	b.rest(order)
}

func (b *OrderBook) rest(order *types.Order) {
	if order.Side == types.Buy {
		level := b.getOrCreateLevel(b.bids, order.Price, func() btree.Item { return &bidItem{level: &types.PriceLevel{Price: order.Price}} })
		level.Orders = append(level.Orders, order)
		level.TotalQuantity += order.Remaining()
		b.index[order.Id] = cancelEntry{side: types.Buy, price: order.Price}
	} else {
		level := b.getOrCreateLevel(b.asks, order.Price, func() btree.Item { return &askItem{level: &types.PriceLevel{Price: order.Price}} })
		level.Orders = append(level.Orders, order)
		level.TotalQuantity += order.Remaining()
		b.index[order.Id] = cancelEntry{side: types.Sell, price: order.Price}
	}
}

func (b *OrderBook) getOrCreateLevel(tree *btree.BTree, price types.Price, newItem func() btree.Item) *types.PriceLevel {
	probe := newItem()
	if existing := tree.Get(probe); existing != nil {
		return levelOf(existing)
	}
	tree.ReplaceOrInsert(probe)
	return levelOf(probe)
}

func levelOf(item btree.Item) *types.PriceLevel {
	switch v := item.(type) {
	case *bidItem:
		return v.level
	case *askItem:
		return v.level
	default:
		panic("book: unknown price level item type")
	}
}

// match walks the opposing side, executing trades until the order is
// filled, liquidity runs out, or (for LIMIT orders) the book stops
// crossing. It leaves order.Status set to the terminal result for the
// incoming order, per the matching algorithm.
func (b *OrderBook) match(order *types.Order) {
	if order.Side == types.Buy {
		b.matchAgainst(order, b.asks, func(item btree.Item) *types.PriceLevel { return item.(*askItem).level },
			func(levelPrice types.Price) bool { return order.Type == types.Limit && levelPrice > order.Price })
	} else {
		b.matchAgainst(order, b.bids, func(item btree.Item) *types.PriceLevel { return item.(*bidItem).level },
			func(levelPrice types.Price) bool { return order.Type == types.Limit && levelPrice < order.Price })
	}
	b.finalizeStatus(order)
}

func (b *OrderBook) finalizeStatus(order *types.Order) {
	switch {
	case order.Filled >= order.Quantity:
		order.Status = types.Filled
	case order.Filled > 0:
		order.Status = types.Partial
	default:
		order.Status = types.Pending
	}
}

// matchAgainst walks contraTree from its best price, crossing while
// stopCrossing reports false, executing trades against the FIFO head
// of each level.
func (b *OrderBook) matchAgainst(order *types.Order, contraTree *btree.BTree, levelOf func(btree.Item) *types.PriceLevel, stopCrossing func(types.Price) bool) {
	for order.Remaining() > 0 {
		item := contraTree.Min()
		if item == nil {
			break
		}
		level := levelOf(item)
		if stopCrossing(level.Price) {
			break
		}

		for order.Remaining() > 0 && len(level.Orders) > 0 {
			contra := level.Orders[0]
			tradeQty := min64(order.Remaining(), contra.Remaining())

			b.emitTrade(order, contra, level.Price, tradeQty)

			order.Filled += tradeQty
			contra.Filled += tradeQty
			level.TotalQuantity -= tradeQty

			if contra.Remaining() == 0 {
				contra.Status = types.Filled
				level.Orders = level.Orders[1:]
				delete(b.index, contra.Id)
			} else {
				contra.Status = types.Partial
			}
		}

		if len(level.Orders) == 0 {
			contraTree.Delete(item)
		}
	}
}

func (b *OrderBook) emitTrade(order, contra *types.Order, price types.Price, qty types.Quantity) {
	var buyId, sellId types.OrderId
	if order.Side == types.Buy {
		buyId, sellId = order.Id, contra.Id
	} else {
		buyId, sellId = contra.Id, order.Id
	}

	ts := order.Timestamp
	if contra.Timestamp > ts {
		ts = contra.Timestamp
	}

	trade := types.Trade{
		BuyOrderId:  buyId,
		SellOrderId: sellId,
		Price:       price,
		Quantity:    qty,
		Timestamp:   ts,
	}

	b.totalTrades++
	if b.tradeCallback != nil {
		b.tradeCallback(trade)
	}
}

// CancelOrder removes a resting order by id. It is a silent no-op if
// the id isn't tracked (already filled, already cancelled, or never
// seen), matching spec.md's minimal cancel semantics.
func (b *OrderBook) CancelOrder(id types.OrderId) bool {
	entry, ok := b.index[id]
	if !ok {
		return false
	}
	delete(b.index, id)

	var tree *btree.BTree
	var probe btree.Item
	if entry.side == types.Buy {
		tree = b.bids
		probe = &bidItem{level: &types.PriceLevel{Price: entry.price}}
	} else {
		tree = b.asks
		probe = &askItem{level: &types.PriceLevel{Price: entry.price}}
	}

	item := tree.Get(probe)
	if item == nil {
		return false
	}
	level := levelOf(item)

	removed := false
	for i, o := range level.Orders {
		if o.Id == id {
			level.TotalQuantity -= o.Remaining()
			o.Status = types.Cancelled
			level.Orders = append(level.Orders[:i], level.Orders[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return false
	}

	if len(level.Orders) == 0 {
		tree.Delete(item)
	}
	return true
}

// Snapshot returns up to depth price levels per side, best price
// first, for read-only reporting (the monitor server's order-book
// endpoint). It copies level data rather than exposing *types.Order
// pointers, so callers can't reach into the live book.
func (b *OrderBook) Snapshot(depth int) (bids, asks []types.PriceLevel) {
	bids = collectLevels(b.bids, depth)
	asks = collectLevels(b.asks, depth)
	return bids, asks
}

func collectLevels(tree *btree.BTree, depth int) []types.PriceLevel {
	if depth <= 0 {
		depth = 10
	}
	levels := make([]types.PriceLevel, 0, depth)
	tree.Ascend(func(item btree.Item) bool {
		levels = append(levels, types.PriceLevel{
			Price:         levelOf(item).Price,
			TotalQuantity: levelOf(item).TotalQuantity,
		})
		return len(levels) < depth
	})
	return levels
}

func min64(a, b types.Quantity) types.Quantity {
	if a < b {
		return a
	}
	return b
}
