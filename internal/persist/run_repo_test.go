package persist

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/config"
)

// openTestDB connects to SKIRMISH_TEST_DSN and skips when it is unset.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SKIRMISH_TEST_DSN")
	if dsn == "" {
		t.Skip("SKIRMISH_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	schema, err := RunMigrations(ctx, db.Pool)
	require.NoError(t, err)
	require.Positive(t, schema.To)
	require.GreaterOrEqual(t, schema.To, schema.From)

	again, err := RunMigrations(ctx, db.Pool)
	require.NoError(t, err)
	assert.False(t, again.Changed())
	assert.Equal(t, schema.To, again.From)
	return db
}

func TestNewDBRequiresDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestNewDBRejectsBadDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.ErrorContains(t, err, "parse dsn")
}

func TestPoolConfigForRunReports(t *testing.T) {
	cfg, err := poolConfig(config.DatabaseConfig{
		DSN:          "postgres://u:p@db.local:5432/bench",
		MaxOpenConns: 3,
		MaxIdleConns: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), cfg.MaxConns)
	assert.Equal(t, int32(3), cfg.MinConns, "idle conns capped at max")
	assert.Equal(t, time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, 5*time.Second, cfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, applicationName, cfg.ConnConfig.RuntimeParams["application_name"])

	cfg, err = poolConfig(config.DatabaseConfig{
		DSN:            "postgres://u:p@db.local/bench?application_name=ci",
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "ci", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, time.Second, cfg.ConnConfig.ConnectTimeout)
}

func TestMigrationSourceIsRooted(t *testing.T) {
	dir, err := migrationSource()
	require.NoError(t, err)
	files, err := fs.Glob(dir, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "00001_bench_runs.sql", files[0])

	body, err := fs.ReadFile(dir, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "bench_runs")
}

func TestRunRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()
	params := "test " + time.Now().Format(time.RFC3339Nano)

	last, err := repo.LastRun(ctx, params)
	require.NoError(t, err)
	assert.Nil(t, last)

	for _, d := range []string{"aaa", "bbb", "ccc"} {
		row := &RunRow{Params: params, Entities: 10, Ticks: 5, Elapsed: 1500 * time.Microsecond, Digest: d}
		id, err := repo.Insert(ctx, row)
		require.NoError(t, err)
		assert.Positive(t, id)
		assert.False(t, row.RecordedAt.IsZero())
	}

	last, err = repo.LastRun(ctx, params)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "ccc", last.Digest)
	assert.Equal(t, 1500*time.Microsecond, last.Elapsed)
	assert.Equal(t, 10, last.Entities)

	pruned, err := repo.Prune(ctx, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pruned, int64(2))

	var left int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM bench_runs WHERE params = $1`, params).Scan(&left))
	assert.Equal(t, 1, left)

	last, err = repo.LastRun(ctx, params)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "ccc", last.Digest)
}
