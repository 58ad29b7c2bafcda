package persist

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationReport describes what RunMigrations changed.
type MigrationReport struct {
	From    int64 // schema version before
	To      int64 // schema version after
	Applied []int64
}

// Changed reports whether any migration was applied.
func (r MigrationReport) Changed() bool { return len(r.Applied) > 0 }

// RunMigrations brings the run-report schema up to date.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) (MigrationReport, error) {
	var report MigrationReport

	dir, err := migrationSource()
	if err != nil {
		return report, err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, dir)
	if err != nil {
		return report, fmt.Errorf("goose provider: %w", err)
	}

	if report.From, err = provider.GetDBVersion(ctx); err != nil {
		return report, fmt.Errorf("schema version: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return report, fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		report.Applied = append(report.Applied, r.Source.Version)
	}
	if report.To, err = provider.GetDBVersion(ctx); err != nil {
		return report, fmt.Errorf("schema version: %w", err)
	}
	return report, nil
}

// migrationSource is the embedded migrations directory rooted at its files,
// the layout goose expects.
func migrationSource() (fs.FS, error) {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	return dir, nil
}
