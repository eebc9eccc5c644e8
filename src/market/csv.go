package market

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"backtest-engine/src/types"
)

// LoadCSV reads a tick stream from a CSV file with the header
// symbol,timestamp_ns,price,volume,side (price in decimal currency
// units, side one of BUY/SELL). A missing or unreadable file falls
// back to Synthetic, matching the original's load_ticks_from_csv.
func LoadCSV(path string) []types.Tick {
	f, err := os.Open(path)
	if err != nil {
		return Synthetic(DefaultSyntheticCount)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5

	if _, err := r.Read(); err != nil { // header
		return Synthetic(DefaultSyntheticCount)
	}

	var ticks []types.Tick
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		tick, ok := parseRecord(record)
		if !ok {
			continue
		}
		ticks = append(ticks, tick)
	}

	if len(ticks) == 0 {
		return Synthetic(DefaultSyntheticCount)
	}
	return ticks
}

func parseRecord(record []string) (types.Tick, bool) {
	symbol := record[0]

	ts, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return types.Tick{}, false
	}

	price, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return types.Tick{}, false
	}

	volume, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return types.Tick{}, false
	}

	side := types.Sell
	if record[4] == "BUY" {
		side = types.Buy
	}

	return types.Tick{
		Symbol:    symbol,
		Price:     types.Price(price * 10000),
		Volume:    types.Quantity(volume),
		Timestamp: types.Timestamp(ts),
		Side:      side,
	}, true
}
