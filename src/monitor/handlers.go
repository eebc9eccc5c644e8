package monitor

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"backtest-engine/src/models"
)

// Handlers wires a Publisher's snapshot to fiber routes.
type Handlers struct {
	publisher *Publisher
}

func NewHandlers(publisher *Publisher) *Handlers {
	return &Handlers{publisher: publisher}
}

func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	snap := h.publisher.load()

	status := "running"
	if snap.stats.TicksProcessed > 0 && len(snap.books) == 0 {
		status = "idle"
	}

	return c.JSON(models.HealthResponse{
		Status:        status,
		RunID:         h.publisher.runID,
		UptimeSeconds: int64(h.publisher.Uptime().Seconds()),
	})
}

func (h *Handlers) Metrics(c *fiber.Ctx) error {
	snap := h.publisher.load()

	return c.JSON(models.MetricsResponse{
		TicksProcessed:  snap.stats.TicksProcessed,
		OrdersSubmitted: snap.stats.OrdersSubmitted,
		TradesExecuted:  snap.stats.TradesExecuted,
		AvgLatencyUs:    snap.stats.AvgLatencyUs(),
	})
}

func (h *Handlers) GetOrderBook(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	snap := h.publisher.load()

	for _, b := range snap.books {
		if b.Symbol != symbol {
			continue
		}

		resp := models.OrderBookResponse{
			Symbol:    b.Symbol,
			Timestamp: time.Now().UnixMilli(),
			Bids:      make([]models.PriceLevelInfo, len(b.Bids)),
			Asks:      make([]models.PriceLevelInfo, len(b.Asks)),
		}
		for i, lvl := range b.Bids {
			resp.Bids[i] = models.PriceLevelInfo{Price: int64(lvl.Price), Quantity: int64(lvl.TotalQuantity)}
		}
		for i, lvl := range b.Asks {
			resp.Asks[i] = models.PriceLevelInfo{Price: int64(lvl.Price), Quantity: int64(lvl.TotalQuantity)}
		}
		return c.JSON(resp)
	}

	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: "unknown symbol: " + symbol,
	})
}
