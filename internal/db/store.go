package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muratams/cabot/internal/people"
)

// TrackStore persists per-cycle tracking output, tagged with a run id so
// successive tracker sessions in the same database stay separable. It
// implements people.Emitter.
type TrackStore struct {
	db    *DB
	runID uuid.UUID
}

// NewTrackStore registers a new tracker run and returns a store emitter
// bound to it.
func NewTrackStore(database *DB, runID uuid.UUID, cfg people.TrackerConfig, startedAt time.Time) (*TrackStore, error) {
	_, err := database.Exec(`
		INSERT INTO tracker_runs (run_id, started_unix_nanos, input_time, fps_est_time, stop_publish_secs, remove_secs)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID.String(),
		startedAt.UnixNano(),
		cfg.InputTime,
		cfg.FPSEstTime,
		cfg.DurationInactiveToStopPublish.Seconds(),
		cfg.DurationInactiveToRemove.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert tracker run: %w", err)
	}
	return &TrackStore{db: database, runID: runID}, nil
}

// RunID returns the run this store writes under.
func (s *TrackStore) RunID() uuid.UUID { return s.runID }

// Emit writes one cycle and its published observations in a single
// transaction.
func (s *TrackStore) Emit(out people.CycleOutput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cycle transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO track_cycles (run_id, batch_unix_nanos, alive_count, published_count)
		VALUES (?, ?, ?, ?)`,
		s.runID.String(),
		out.BatchTimestamp.UnixNano(),
		len(out.AliveTrackIDs),
		len(out.Positions),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}

	for id, pos := range out.Positions {
		vel := out.Velocities[id]
		_, err = tx.Exec(`
			INSERT INTO track_observations (run_id, track_id, batch_unix_nanos, x, y, velocity_x, velocity_y, speed_mps)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, track_id, batch_unix_nanos) DO UPDATE SET
				x = excluded.x,
				y = excluded.y,
				velocity_x = excluded.velocity_x,
				velocity_y = excluded.velocity_y,
				speed_mps = excluded.speed_mps`,
			s.runID.String(),
			id,
			out.BatchTimestamp.UnixNano(),
			pos.X,
			pos.Y,
			vel.VX,
			vel.VY,
			vel.Speed(),
		)
		if err != nil {
			return fmt.Errorf("insert observation for track %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cycle: %w", err)
	}
	return nil
}

// Observation is one persisted row of track_observations.
type Observation struct {
	TrackID        int
	BatchUnixNanos int64
	X, Y           float64
	VelocityX      float64
	VelocityY      float64
	SpeedMps       float64
}

// Observations returns the most recent persisted observations for one track
// in this run, newest first.
func (s *TrackStore) Observations(trackID, limit int) ([]Observation, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT track_id, batch_unix_nanos, x, y, velocity_x, velocity_y, speed_mps
		FROM track_observations
		WHERE run_id = ? AND track_id = ?
		ORDER BY batch_unix_nanos DESC
		LIMIT ?`,
		s.runID.String(), trackID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.TrackID, &o.BatchUnixNanos, &o.X, &o.Y, &o.VelocityX, &o.VelocityY, &o.SpeedMps); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

// CycleCount returns the number of cycles persisted for this run.
func (s *TrackStore) CycleCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM track_cycles WHERE run_id = ?`, s.runID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cycles: %w", err)
	}
	return n, nil
}
