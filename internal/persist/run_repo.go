package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunRow is one recorded benchmark run.
type RunRow struct {
	ID          int64
	Params      string
	Entities    int
	Ticks       int
	Elapsed     time.Duration
	TicksPerSec float64
	Alive       int
	Kills       int
	Respawns    int
	Landed      int
	Discarded   int
	Digest      string
	RecordedAt  time.Time
}

// RunRepo stores benchmark results. Simulation state is never persisted.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Insert records a run and returns its id.
func (r *RunRepo) Insert(ctx context.Context, row *RunRow) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO bench_runs (params, entities, ticks, elapsed_us, ticks_per_sec,
		                         alive, kills, respawns, landed, discarded, digest)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, recorded_at`,
		row.Params, row.Entities, row.Ticks, row.Elapsed.Microseconds(), row.TicksPerSec,
		row.Alive, row.Kills, row.Respawns, row.Landed, row.Discarded, row.Digest,
	).Scan(&id, &row.RecordedAt)
	if err != nil {
		return 0, err
	}
	row.ID = id
	return id, nil
}

// LastRun returns the most recent run with the same params, or nil when there
// is none.
func (r *RunRepo) LastRun(ctx context.Context, params string) (*RunRow, error) {
	var (
		row       RunRow
		elapsedUs int64
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, params, entities, ticks, elapsed_us, ticks_per_sec,
		        alive, kills, respawns, landed, discarded, digest, recorded_at
		 FROM bench_runs WHERE params = $1 ORDER BY id DESC LIMIT 1`, params,
	).Scan(
		&row.ID, &row.Params, &row.Entities, &row.Ticks, &elapsedUs, &row.TicksPerSec,
		&row.Alive, &row.Kills, &row.Respawns, &row.Landed, &row.Discarded, &row.Digest, &row.RecordedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.Elapsed = time.Duration(elapsedUs) * time.Microsecond
	return &row, nil
}

// Prune keeps the newest keep runs per params and deletes the rest.
func (r *RunRepo) Prune(ctx context.Context, keep int) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM bench_runs WHERE id IN (
		     SELECT id FROM (
		         SELECT id, row_number() OVER (PARTITION BY params ORDER BY id DESC) AS rn
		         FROM bench_runs
		     ) ranked WHERE rn > $1
		 )`, keep)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
