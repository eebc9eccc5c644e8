package monitor

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"backtest-engine/src/middleware"
)

// NewServer builds the fiber app for the monitor surface: health,
// metrics, and a read-only order-book snapshot per symbol. Grounded
// on the teacher's routes.SetupRoutes, with every mutating route
// removed.
func NewServer(publisher *Publisher) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("monitor request error")
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())

	serviceAvailability := middleware.DefaultServiceAvailability()
	app.Use(serviceAvailability.Middleware())
	app.Use(middleware.RequestLogger())

	if os.Getenv("RATE_LIMIT_DISABLED") != "1" {
		app.Use(middleware.DefaultRateLimiter().Middleware())
	}

	h := NewHandlers(publisher)

	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", h.Metrics)
	app.Get("/orderbook/:symbol", h.GetOrderBook)

	return app
}

// Port resolves the monitor server's listen port from MONITOR_PORT,
// defaulting to 8090 (separate from the teacher's PORT/8080, since
// this is a read-only sidecar rather than the primary API).
func Port() string {
	if p := os.Getenv("MONITOR_PORT"); p != "" {
		if _, err := strconv.Atoi(p); err == nil {
			return ":" + p
		}
	}
	return ":8090"
}

// Disabled reports whether MONITOR_DISABLED=1 was set.
func Disabled() bool {
	return os.Getenv("MONITOR_DISABLED") == "1"
}

// DefaultShutdownTimeout mirrors the teacher's SHUTDOWN_TIMEOUT
// default.
const DefaultShutdownTimeout = 10 * time.Second

// ShutdownTimeout resolves SHUTDOWN_TIMEOUT, falling back to
// DefaultShutdownTimeout.
func ShutdownTimeout() time.Duration {
	if envTimeout := os.Getenv("SHUTDOWN_TIMEOUT"); envTimeout != "" {
		if parsed, err := time.ParseDuration(envTimeout); err == nil && parsed > 0 {
			return parsed
		}
	}
	return DefaultShutdownTimeout
}
