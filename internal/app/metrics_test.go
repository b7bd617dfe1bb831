package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)

	snapshot := m.Snapshot()
	assert.Zero(t, snapshot.Spawned)
	assert.Zero(t, snapshot.MinRunNs, "min sentinel is hidden before the first exit")
}

func TestMetrics_RecordSpawn(t *testing.T) {
	m := NewMetrics()

	m.RecordSpawn(nil)
	m.RecordSpawn(nil)
	m.RecordSpawn(errors.New("exec: not found"))

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.Spawned)
	assert.Equal(t, uint64(1), snapshot.SpawnFailed)
	assert.Equal(t, uint64(2), snapshot.Running())
}

func TestMetrics_RecordExit(t *testing.T) {
	m := NewMetrics()

	m.RecordSpawn(nil)
	m.RecordSpawn(nil)
	m.RecordSpawn(nil)
	m.RecordExit(0, 10*time.Millisecond)
	m.RecordExit(1, 20*time.Millisecond)
	m.RecordExit(0, 6*time.Millisecond)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(3), snapshot.Exited)
	assert.Equal(t, uint64(1), snapshot.ExitedNonZero)
	assert.Equal(t, 0, snapshot.LastExitCode)
	assert.Equal(t, int64(6*time.Millisecond), snapshot.MinRunNs)
	assert.Equal(t, int64(20*time.Millisecond), snapshot.MaxRunNs)
	assert.Equal(t, int64(12*time.Millisecond), snapshot.AvgRunNs)
	assert.Zero(t, snapshot.Running())
}

func TestMetricsSnapshot_FailureRate(t *testing.T) {
	tests := []struct {
		name     string
		exited   uint64
		nonZero  uint64
		expected float64
	}{
		{"no runs", 0, 0, 0},
		{"all ok", 4, 0, 0},
		{"quarter failed", 4, 1, 25},
		{"all failed", 2, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MetricsSnapshot{Exited: tt.exited, ExitedNonZero: tt.nonZero}
			assert.InDelta(t, tt.expected, s.FailureRate(), 1e-9)
		})
	}
}

func TestMetrics_RecordProvide(t *testing.T) {
	m := NewMetrics()

	m.RecordProvide(15)
	m.RecordProvide(0)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.Provides)
	assert.Equal(t, uint64(1), snapshot.EmptyProvides)
}

func TestMetricsSnapshot_KeyVals(t *testing.T) {
	kv := NewMetrics().Snapshot().KeyVals()
	require.Zero(t, len(kv)%2, "odd key-value count")

	for i := 0; i < len(kv); i += 2 {
		assert.IsType(t, "", kv[i], "key %d", i)
	}
}
