package models

// HealthResponse reports whether a backtest run is currently in
// progress.
type HealthResponse struct {
	Status        string `json:"status"`
	RunID         string `json:"run_id"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// MetricsResponse mirrors tickengine.Stats for the monitor surface.
type MetricsResponse struct {
	TicksProcessed  uint64  `json:"ticks_processed"`
	OrdersSubmitted uint64  `json:"orders_submitted"`
	TradesExecuted  uint64  `json:"trades_executed"`
	AvgLatencyUs    float64 `json:"avg_latency_us"`
}

// OrderBookResponse is a read-only snapshot of one symbol's book.
type OrderBookResponse struct {
	Symbol    string           `json:"symbol"`
	Timestamp int64            `json:"timestamp"` // unix timestamp in milliseconds
	Bids      []PriceLevelInfo `json:"bids"`       // sorted descending (highest first)
	Asks      []PriceLevelInfo `json:"asks"`       // sorted ascending (lowest first)
}

type PriceLevelInfo struct {
	Price    int64 `json:"price"`    // fixed-point, 1 unit = 1/10000 currency unit
	Quantity int64 `json:"quantity"` // aggregated quantity at this price
}

type ErrorResponse struct {
	Error string `json:"error"`
}
