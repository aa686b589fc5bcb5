package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

func TestTelemetrySinkRecordsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	sink, err := OpenTelemetry(path, TelemetryOptions{Aircraft: "trainer", Batch: 16})
	require.NoError(t, err)

	model, err := sim.Load("../../aircraft/trainer.yaml")
	require.NoError(t, err)
	s, err := sim.New(model, rigidbody.Level(60, 300), sim.Options{})
	require.NoError(t, err)
	s.AddObserver(sink)

	res, err := s.Run(context.Background(), control.Constant{3: 0.6}, sim.RunConfig{Dt: 0.01, Duration: 0.5})
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.Zero(t, sink.Dropped())

	rows, err := ReadTelemetry(path, sink.RunID())
	require.NoError(t, err)
	require.Len(t, rows, res.StepsTaken)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Step)
	}
	assert.InDelta(t, res.Final.State.Altitude(), rows[len(rows)-1].Altitude, 1e-9)

	ids, err := TelemetryRuns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{sink.RunID()}, ids)
}

func TestTelemetrySinkDropsWhenFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	sink, err := OpenTelemetry(path, TelemetryOptions{RunID: "burst", Buffer: 1})
	require.NoError(t, err)

	snap := sim.Snapshot{State: rigidbody.Level(50, 10)}
	for i := 0; i < 10000; i++ {
		snap.Step = i
		sink.OnStep(&snap)
	}
	require.NoError(t, sink.Close())

	rows, err := ReadTelemetry(path, "burst")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), int64(len(rows))+sink.Dropped())
}

func TestTelemetrySinkReportsWriteErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	sink, err := OpenTelemetry(path, TelemetryOptions{RunID: "dup"})
	require.NoError(t, err)

	// duplicate (run_id, step) violates the primary key
	snap := sim.Snapshot{Step: 1, State: rigidbody.Level(50, 10)}
	sink.OnStep(&snap)
	sink.OnStep(&snap)
	assert.Error(t, sink.Close())
}
