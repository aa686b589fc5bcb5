package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/flightsim/internal/log"
	"github.com/san-kum/flightsim/internal/sim"
)

//go:embed schema.sql
var schemaSQL string

const insertTelemetry = `
	INSERT INTO telemetry (
		run_id, step, t,
		u, v, w, p, q, r, x, y, z, e0, ex, ey, ez,
		airspeed, alpha, altitude,
		fx, fy, fz, mx, my, mz
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// TelemetrySink is a sim.Observer that writes every snapshot to a SQLite
// table from its own goroutine. OnStep only enqueues; when the queue is
// full the frame is dropped and counted. Write failures are kept on the
// sink and never reach the simulation.
type TelemetrySink struct {
	db    *sql.DB
	runID string
	lg    *log.Logger

	queue   chan sim.Snapshot
	done    chan struct{}
	dropped atomic.Int64

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// TelemetryOptions configures a sink. Buffer defaults to 4096 snapshots and
// Batch to 256 rows per transaction.
type TelemetryOptions struct {
	RunID    string
	Aircraft string
	Buffer   int
	Batch    int
	Logger   *log.Logger
}

func OpenTelemetry(path string, opts TelemetryOptions) (*TelemetrySink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create telemetry schema: %w", err)
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 4096
	}
	if opts.Batch <= 0 {
		opts.Batch = 256
	}

	if _, err := db.Exec(`INSERT INTO runs (run_id, aircraft, started_at) VALUES (?, ?, ?)`,
		opts.RunID, opts.Aircraft, time.Now().UnixNano()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register run: %w", err)
	}

	s := &TelemetrySink{
		db:    db,
		runID: opts.RunID,
		lg:    opts.Logger,
		queue: make(chan sim.Snapshot, opts.Buffer),
		done:  make(chan struct{}),
	}
	go s.write(opts.Batch)
	return s, nil
}

func (s *TelemetrySink) RunID() string { return s.runID }

func (s *TelemetrySink) OnStep(snap *sim.Snapshot) {
	select {
	case s.queue <- *snap:
	default:
		s.dropped.Add(1)
	}
}

func (s *TelemetrySink) Dropped() int64 { return s.dropped.Load() }

// Err returns the first write error, if any.
func (s *TelemetrySink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close drains the queue, closes the database and returns the first write
// error. OnStep must not be called after Close.
func (s *TelemetrySink) Close() error {
	s.closeOnce.Do(func() {
		close(s.queue)
		<-s.done
		if err := s.db.Close(); err != nil {
			s.fail(err)
		}
		if n := s.Dropped(); n > 0 {
			s.lg.Warn("telemetry frames dropped", "run", s.runID, "dropped", n)
		}
	})
	return s.Err()
}

func (s *TelemetrySink) write(batch int) {
	defer close(s.done)

	pending := make([]sim.Snapshot, 0, batch)
	for snap := range s.queue {
		pending = append(pending, snap)
		if len(pending) < batch && len(s.queue) > 0 {
			continue
		}
		s.flush(pending)
		pending = pending[:0]
	}
	if len(pending) > 0 {
		s.flush(pending)
	}
}

func (s *TelemetrySink) flush(rows []sim.Snapshot) {
	if s.Err() != nil {
		return
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.fail(err)
		return
	}
	stmt, err := tx.Prepare(insertTelemetry)
	if err != nil {
		tx.Rollback()
		s.fail(err)
		return
	}
	defer stmt.Close()

	for i := range rows {
		if _, err := stmt.Exec(telemetryArgs(s.runID, &rows[i])...); err != nil {
			tx.Rollback()
			s.fail(fmt.Errorf("failed to insert step %d: %w", rows[i].Step, err))
			return
		}
	}
	if err := tx.Commit(); err != nil {
		s.fail(err)
	}
}

func (s *TelemetrySink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
		s.lg.Error("telemetry write failed", "run", s.runID, "error", err)
	}
}

func telemetryArgs(runID string, snap *sim.Snapshot) []any {
	args := []any{runID, snap.Step, snap.Time}
	for _, v := range snap.State.Vector() {
		args = append(args, v)
	}
	f, m := snap.Total.Force, snap.Total.Moment
	return append(args,
		snap.State.Airspeed(), snap.State.Alpha(), snap.State.Altitude(),
		f.X, f.Y, f.Z, m.X, m.Y, m.Z)
}

// TelemetryRow is one stored step.
type TelemetryRow struct {
	Step     int
	Time     float64
	Airspeed float64
	Alpha    float64
	Altitude float64
}

// ReadTelemetry returns the stored steps of one run in step order.
func ReadTelemetry(path, runID string) ([]TelemetryRow, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT step, t, airspeed, alpha, altitude
		FROM telemetry WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry: %w", err)
	}
	defer rows.Close()

	var out []TelemetryRow
	for rows.Next() {
		var r TelemetryRow
		if err := rows.Scan(&r.Step, &r.Time, &r.Airspeed, &r.Alpha, &r.Altitude); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TelemetryRuns lists the run IDs recorded in a telemetry database.
func TelemetryRuns(path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT run_id FROM runs ORDER BY started_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
