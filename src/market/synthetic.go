// Package market supplies tick streams for a backtest: a seeded
// synthetic random walk and a CSV loader, grounded on
// original_source/src/main.cpp's generate_synthetic_ticks and
// load_ticks_from_csv.
package market

import (
	"math/rand"

	"backtest-engine/src/types"
)

// DefaultSyntheticCount mirrors the original's default run size.
const DefaultSyntheticCount = 1_000_000

const (
	syntheticSeed      = 42
	syntheticBasePrice = types.Price(1000000) // $100.00
	syntheticStartTs   = types.Timestamp(1700000000000000000)
	syntheticTickNs    = types.Timestamp(1000000) // 1ms between ticks
	syntheticVolMin    = 100
	syntheticVolRange  = 900 // [100, 1000)
)

// Synthetic generates count ticks for a single symbol ("AAPL") as a
// seeded random walk: each step nudges the price by a small normal
// perturbation proportional to the current price, with uniformly
// random volume and a coin-flip side. The fixed seed makes two calls
// with the same count produce identical streams.
func Synthetic(count int) []types.Tick {
	if count <= 0 {
		count = DefaultSyntheticCount
	}

	rng := rand.New(rand.NewSource(syntheticSeed))
	ticks := make([]types.Tick, 0, count)

	price := syntheticBasePrice
	ts := syntheticStartTs

	for i := 0; i < count; i++ {
		price += types.Price(rng.NormFloat64() * 0.001 * float64(price))

		side := types.Buy
		if rng.Float64() < 0.5 {
			side = types.Sell
		}

		ticks = append(ticks, types.Tick{
			Symbol:    "AAPL",
			Price:     price,
			Volume:    types.Quantity(syntheticVolMin + rng.Intn(syntheticVolRange)),
			Timestamp: ts,
			Side:      side,
		})

		ts += syntheticTickNs
	}

	return ticks
}
