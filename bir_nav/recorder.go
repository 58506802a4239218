package bir_nav

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const recorderSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER,
	target_x    REAL NOT NULL,
	target_z    REAL NOT NULL,
	tolerance   REAL NOT NULL,
	cycles      INTEGER NOT NULL DEFAULT 0,
	reached     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS cycles (
	run_id         TEXT NOT NULL REFERENCES runs(run_id),
	cycle          INTEGER NOT NULL,
	readings       TEXT NOT NULL,
	pos_x          REAL NOT NULL,
	pos_z          REAL NOT NULL,
	pressure_left  REAL NOT NULL,
	pressure_right REAL NOT NULL,
	state          TEXT NOT NULL,
	left_velocity  REAL NOT NULL,
	right_velocity REAL NOT NULL,
	goal_distance  REAL NOT NULL,
	reached        INTEGER NOT NULL,
	PRIMARY KEY (run_id, cycle)
);`

// CycleRecord is one persisted control cycle.
type CycleRecord struct {
	Cycle        uint64
	Readings     Readings
	X, Z         float64
	Pressure     WheelPressure
	State        string
	Command      WheelCommand
	GoalDistance float64
	Reached      bool
}

// Recorder persists every cycle of a run to a sqlite database.
type Recorder struct {
	db     *sql.DB
	insert *sql.Stmt
	runID  string
}

// OpenRecorder opens (or creates) the database at path and registers a new run.
func OpenRecorder(ctx context.Context, path string, cfg ControllerConfig) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open recorder db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, recorderSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create recorder schema: %w", err)
	}

	runID := uuid.New().String()
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, target_x, target_z, tolerance) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UnixNano(), cfg.Goal.TargetX, cfg.Goal.TargetZ, cfg.Goal.Tolerance,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("insert run: %w", err)
	}

	insert, err := db.PrepareContext(ctx, `INSERT INTO cycles (
		run_id, cycle, readings, pos_x, pos_z, pressure_left, pressure_right,
		state, left_velocity, right_velocity, goal_distance, reached
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare cycle insert: %w", err)
	}

	return &Recorder{db: db, insert: insert, runID: runID}, nil
}

// RunID returns the identifier of the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// ObserveCycle writes one cycle row. Write failures are logged, not fatal.
func (r *Recorder) ObserveCycle(in CycleInput, res CycleResult) {
	if err := r.Record(context.Background(), in, res); err != nil {
		Logf("recorder: %v", err)
	}
}

// Record writes one cycle row.
func (r *Recorder) Record(ctx context.Context, in CycleInput, res CycleResult) error {
	readings, err := json.Marshal(in.Readings)
	if err != nil {
		return fmt.Errorf("encode readings: %w", err)
	}
	_, err = r.insert.ExecContext(ctx,
		r.runID, int64(res.Cycle), string(readings), in.Position.X, in.Position.Z,
		res.Pressure.Left, res.Pressure.Right, res.State.String(),
		res.Command.Left, res.Command.Right, res.GoalDistance, boolToInt(res.Reached),
	)
	if err != nil {
		return fmt.Errorf("insert cycle %d: %w", res.Cycle, err)
	}
	return nil
}

// Finish stamps the run with its final cycle count and outcome.
func (r *Recorder) Finish(ctx context.Context, last CycleResult) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, cycles = ?, reached = ? WHERE run_id = ?`,
		time.Now().UnixNano(), int64(last.Cycle), boolToInt(last.Reached), r.runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Cycles loads the recorded cycles of the current run in order.
func (r *Recorder) Cycles(ctx context.Context) ([]CycleRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		cycle, readings, pos_x, pos_z, pressure_left, pressure_right,
		state, left_velocity, right_velocity, goal_distance, reached
		FROM cycles WHERE run_id = ? ORDER BY cycle`, r.runID)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var (
			rec      CycleRecord
			cycle    int64
			readings string
			reached  int
		)
		if err := rows.Scan(&cycle, &readings, &rec.X, &rec.Z,
			&rec.Pressure.Left, &rec.Pressure.Right, &rec.State,
			&rec.Command.Left, &rec.Command.Right, &rec.GoalDistance, &reached); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		if err := json.Unmarshal([]byte(readings), &rec.Readings); err != nil {
			return nil, fmt.Errorf("decode readings: %w", err)
		}
		rec.Cycle = uint64(cycle)
		rec.Reached = reached != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the prepared statement and the database.
func (r *Recorder) Close() error {
	_ = r.insert.Close()
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
