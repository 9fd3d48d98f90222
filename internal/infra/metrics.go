package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety: many security replays
// report into the same instance concurrently.
type Metrics struct {
	// Counters
	ticksProcessed  atomic.Uint64
	ordersEmitted   atomic.Uint64
	tradesEmitted   atomic.Uint64
	malformedTicks  atomic.Uint64
	fallbackCancels atomic.Uint64
	settlementDrops atomic.Uint64

	// Replay latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeReplays atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordReplay records one finished security replay with its latency.
func (m *Metrics) RecordReplay(ticks, orders, trades int, latencyNs int64) {
	m.ticksProcessed.Add(uint64(ticks))
	m.ordersEmitted.Add(uint64(orders))
	m.tradesEmitted.Add(uint64(trades))
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordMalformed counts rejected feed records.
func (m *Metrics) RecordMalformed(n int) {
	m.malformedTicks.Add(uint64(n))
}

// RecordFallbackCancels counts cancels priced from the last traded
// price. A rising rate signals upstream data-quality regression.
func (m *Metrics) RecordFallbackCancels(n int) {
	m.fallbackCancels.Add(uint64(n))
}

// RecordSettlementDrops counts accumulators discarded for non-positive
// derived quantity.
func (m *Metrics) RecordSettlementDrops(n int) {
	m.settlementDrops.Add(uint64(n))
}

// IncrementReplays increments active replays by 1.
func (m *Metrics) IncrementReplays() {
	m.activeReplays.Add(1)
}

// DecrementReplays decrements active replays by 1.
func (m *Metrics) DecrementReplays() {
	m.activeReplays.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TicksProcessed  uint64
	OrdersEmitted   uint64
	TradesEmitted   uint64
	MalformedTicks  uint64
	FallbackCancels uint64
	SettlementDrops uint64
	AvgReplayNs     int64
	ActiveReplays   int32
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avg int64
	if count := m.latencyCount.Load(); count > 0 {
		avg = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TicksProcessed:  m.ticksProcessed.Load(),
		OrdersEmitted:   m.ordersEmitted.Load(),
		TradesEmitted:   m.tradesEmitted.Load(),
		MalformedTicks:  m.malformedTicks.Load(),
		FallbackCancels: m.fallbackCancels.Load(),
		SettlementDrops: m.settlementDrops.Load(),
		AvgReplayNs:     avg,
		ActiveReplays:   m.activeReplays.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset zeroes all metrics. Used by tests and between daily runs.
func (m *Metrics) Reset() {
	m.ticksProcessed.Store(0)
	m.ordersEmitted.Store(0)
	m.tradesEmitted.Store(0)
	m.malformedTicks.Store(0)
	m.fallbackCancels.Store(0)
	m.settlementDrops.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeReplays.Store(0)
}
