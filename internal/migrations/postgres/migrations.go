// Package postgres applies the embedded server schema.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/snooze/internal/migrations"
	"github.com/garrettladley/snooze/internal/xslog"
)

const migrationsDir = "sql"

// lockKey serialises migrations across server replicas booting together.
const lockKey int64 = 0x736e6f6f7a65

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs every pending migration in a single transaction held under an
// advisory lock, so a replica that loses the race sees them as applied.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
			return fmt.Errorf("locking migrations: %w", err)
		}

		status, err := status(ctx, tx)
		if err != nil {
			return err
		}

		for _, m := range status {
			if m.Applied {
				continue
			}
			if err := applyOne(ctx, tx, m.Name); err != nil {
				return err
			}
			xslog.FromContext(ctx).InfoContext(ctx, "applied migration", xslog.File(m.Name))
		}
		return nil
	})
}

// Status reports every embedded migration and whether it has been applied.
func Status(ctx context.Context, pool *pgxpool.Pool) ([]migrations.Migration, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()
	return status(ctx, conn)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func status(ctx context.Context, q querier) ([]migrations.Migration, error) {
	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("creating migrations history table: %w", err)
	}

	names, err := migrations.Files(migrationsFS, migrationsDir)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, "SELECT name FROM migrations_history")
	if err != nil {
		return nil, fmt.Errorf("listing applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning applied migrations: %w", err)
	}

	return migrations.Merge(names, applied), nil
}

func applyOne(ctx context.Context, tx pgx.Tx, name string) error {
	content, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", name, err)
	}
	for _, stmt := range migrations.Statements(string(content)) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	if _, err := tx.Exec(ctx, "INSERT INTO migrations_history (name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("recording migration %s: %w", name, err)
	}
	return nil
}
