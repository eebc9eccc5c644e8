// Package monitor exposes a read-only view of an in-progress or
// completed backtest over HTTP: health, aggregate stats, and a
// per-symbol order-book snapshot. It never calls back into the
// engine's mutating surface — grounded on the teacher's OrderHandler,
// but with every write-side route removed.
package monitor

import (
	"sync/atomic"
	"time"

	"backtest-engine/src/tickengine"
)

// snapshot is the immutable value handed from the backtest goroutine
// to the monitor's HTTP handlers.
type snapshot struct {
	stats tickengine.Stats
	books []tickengine.BookSnapshot
}

// Publisher holds the most recently published snapshot behind an
// atomic pointer, the same single-writer/many-reader pattern the
// teacher uses for ServiceAvailability's in-flight counter.
type Publisher struct {
	current   atomic.Pointer[snapshot]
	startTime time.Time
	runID     string
}

// NewPublisher creates a publisher with an empty initial snapshot.
func NewPublisher(runID string) *Publisher {
	p := &Publisher{startTime: time.Now(), runID: runID}
	p.current.Store(&snapshot{})
	return p
}

// Publish replaces the current snapshot. Safe to call from the
// goroutine driving the backtest; readers always see either the old
// or the new snapshot, never a partial one.
func (p *Publisher) Publish(stats tickengine.Stats, books []tickengine.BookSnapshot) {
	p.current.Store(&snapshot{stats: stats, books: books})
}

func (p *Publisher) load() *snapshot {
	return p.current.Load()
}

// Uptime returns the time elapsed since the publisher was created.
func (p *Publisher) Uptime() time.Duration {
	return time.Since(p.startTime)
}
