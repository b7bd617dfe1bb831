package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks tool runs for one session.
type Metrics struct {
	// Spawns
	spawnCount  atomic.Uint64
	spawnFailed atomic.Uint64

	// Exits
	exitCount    atomic.Uint64
	exitNonZero  atomic.Uint64
	lastExitCode atomic.Int64

	// Run timing
	runTotalNs atomic.Int64
	runMinNs   atomic.Int64
	runMaxNs   atomic.Int64

	// Enumeration
	providedCount atomic.Uint64
	emptyProvides atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so the first run will be smaller
	m.runMinNs.Store(1<<63 - 1)
	return m
}

// RecordSpawn records a spawn attempt.
func (m *Metrics) RecordSpawn(err error) {
	if err != nil {
		m.spawnFailed.Add(1)
		return
	}
	m.spawnCount.Add(1)
}

// RecordExit records a finished run.
func (m *Metrics) RecordExit(code int, runtime time.Duration) {
	ns := runtime.Nanoseconds()

	m.exitCount.Add(1)
	if code != 0 {
		m.exitNonZero.Add(1)
	}
	m.lastExitCode.Store(int64(code))
	m.runTotalNs.Add(ns)

	for {
		old := m.runMinNs.Load()
		if ns >= old {
			break
		}
		if m.runMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	for {
		old := m.runMaxNs.Load()
		if ns <= old {
			break
		}
		if m.runMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordProvide records one task enumeration and how many tasks it returned.
func (m *Metrics) RecordProvide(count int) {
	if count == 0 {
		m.emptyProvides.Add(1)
	}
	m.providedCount.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	exitCount := m.exitCount.Load()

	var avgRunNs int64
	if exitCount > 0 {
		avgRunNs = m.runTotalNs.Load() / int64(exitCount)
	}

	minRunNs := m.runMinNs.Load()
	if minRunNs == 1<<63-1 {
		minRunNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Spawned:       m.spawnCount.Load(),
		SpawnFailed:   m.spawnFailed.Load(),
		Exited:        exitCount,
		ExitedNonZero: m.exitNonZero.Load(),
		LastExitCode:  int(m.lastExitCode.Load()),
		AvgRunNs:      avgRunNs,
		MinRunNs:      minRunNs,
		MaxRunNs:      m.runMaxNs.Load(),
		Provides:      m.providedCount.Load(),
		EmptyProvides: m.emptyProvides.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Spawned       uint64
	SpawnFailed   uint64
	Exited        uint64
	ExitedNonZero uint64
	LastExitCode  int
	AvgRunNs      int64
	MinRunNs      int64
	MaxRunNs      int64
	Provides      uint64
	EmptyProvides uint64
}

// Running returns the number of spawned runs that have not exited.
func (s MetricsSnapshot) Running() uint64 {
	if s.Exited > s.Spawned {
		return 0
	}
	return s.Spawned - s.Exited
}

// FailureRate returns the percentage of finished runs with a non-zero exit code.
func (s MetricsSnapshot) FailureRate() float64 {
	if s.Exited == 0 {
		return 0
	}
	return float64(s.ExitedNonZero) / float64(s.Exited) * 100
}

// KeyVals renders the snapshot as logger key-value pairs.
func (s MetricsSnapshot) KeyVals() []any {
	return []any{
		"uptime", s.Uptime.Round(time.Millisecond),
		"spawned", s.Spawned,
		"spawn_failed", s.SpawnFailed,
		"exited", s.Exited,
		"exited_nonzero", s.ExitedNonZero,
		"avg_run", time.Duration(s.AvgRunNs).Round(time.Millisecond),
		"max_run", time.Duration(s.MaxRunNs).Round(time.Millisecond),
	}
}
