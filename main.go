package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"backtest-engine/src/logger"
	"backtest-engine/src/market"
	"backtest-engine/src/monitor"
	"backtest-engine/src/strategy"
	"backtest-engine/src/tickengine"
	"backtest-engine/src/types"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()

	log.Info().Msg("Initializing backtest engine")

	ticks := loadTicks()
	log.Info().Int("ticks", len(ticks)).Msg("Tick stream ready")

	engine := tickengine.New()
	engine.AddStrategy(strategy.NewMomentum(momentumWindow(), 100))
	engine.AddStrategy(strategy.NewMarketMaker(makerSpread(), 50, 500))

	publisher := monitor.NewPublisher(logger.RunID)
	app := startMonitor(log, publisher)

	log.Info().Msg("Running backtest...")
	start := time.Now()

	engine.RunBacktestWithProgress(ticks, 10000, func(stats tickengine.Stats) {
		_, books := engine.Snapshot(10)
		publisher.Publish(stats, books)
	})

	elapsed := time.Since(start)
	printResults(log, engine.GetStats(), elapsed)

	if app != nil {
		waitForShutdown(log, app)
	}

	logger.CloseLogger()
}

// loadTicks reads the optional CSV path positional argument, falling
// back to a synthetic random walk sized by TICKS (default
// market.DefaultSyntheticCount), mirroring the original main.cpp's
// argc>1 branch.
func loadTicks() []types.Tick {
	if len(os.Args) > 1 {
		return market.LoadCSV(os.Args[1])
	}

	count := market.DefaultSyntheticCount
	if envTicks := os.Getenv("TICKS"); envTicks != "" {
		if parsed, err := strconv.Atoi(envTicks); err == nil && parsed > 0 {
			count = parsed
		}
	}
	return market.Synthetic(count)
}

func momentumWindow() int {
	if v := os.Getenv("MOMENTUM_WINDOW"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 20
}

func makerSpread() types.Price {
	if v := os.Getenv("MAKER_SPREAD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			return types.Price(parsed)
		}
	}
	return 100
}

func printResults(log zerolog.Logger, stats tickengine.Stats, elapsed time.Duration) {
	throughput := float64(stats.TicksProcessed) / elapsed.Seconds()

	log.Info().
		Uint64("ticks_processed", stats.TicksProcessed).
		Uint64("orders_submitted", stats.OrdersSubmitted).
		Uint64("trades_executed", stats.TradesExecuted).
		Int64("total_time_ms", elapsed.Milliseconds()).
		Float64("throughput_ticks_per_sec", throughput).
		Float64("avg_latency_us", stats.AvgLatencyUs()).
		Msg("Backtest complete")

	fmt.Println()
	fmt.Println("=== Backtest Results ===")
	fmt.Printf("Ticks processed:    %d\n", stats.TicksProcessed)
	fmt.Printf("Orders submitted:   %d\n", stats.OrdersSubmitted)
	fmt.Printf("Trades executed:    %d\n", stats.TradesExecuted)
	fmt.Printf("Total time:         %d ms\n", elapsed.Milliseconds())
	fmt.Printf("Throughput:         %.2f ticks/sec\n", throughput)
	fmt.Printf("Avg latency:        %.2f us/tick\n", stats.AvgLatencyUs())
}

// startMonitor launches the read-only monitor server unless
// MONITOR_DISABLED=1, mirroring the teacher's own app.Listen
// goroutine + serverError channel pattern.
func startMonitor(log zerolog.Logger, publisher *monitor.Publisher) *fiber.App {
	if monitor.Disabled() {
		log.Info().Msg("Monitor server disabled (MONITOR_DISABLED=1)")
		return nil
	}

	app := monitor.NewServer(publisher)
	port := monitor.Port()

	serverError := make(chan error, 1)
	go func() {
		if err := app.Listen(port); err != nil {
			if err.Error() != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Error().
			Err(err).
			Str("port", port).
			Str("hint", "Port may be in use. Try: MONITOR_PORT=9090").
			Msg("Monitor server failed to start")
		return nil
	case <-time.After(100 * time.Millisecond):
		log.Info().
			Str("port", port).
			Strs("endpoints", []string{
				"GET /health",
				"GET /metrics",
				"GET /orderbook/:symbol",
			}).
			Msg("Monitor server started")
		return app
	}
}

// waitForShutdown blocks for SIGINT/SIGTERM, then shuts the monitor
// server down within SHUTDOWN_TIMEOUT, exactly the teacher's
// context.WithTimeout + ShutdownWithContext pattern.
func waitForShutdown(log zerolog.Logger, app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info().Msg("Received shutdown signal, shutting down monitor...")

	timeout := monitor.ShutdownTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Dur("timeout", timeout).Msg("Timeout exceeded, shutting down...")
		} else {
			log.Error().Err(err).Msg("Error during monitor shutdown")
		}
	} else {
		log.Info().Msg("Monitor shutdown complete")
	}
}
