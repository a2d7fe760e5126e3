package main

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/db"
	"github.com/garrettladley/snooze/internal/migrations"
	"github.com/garrettladley/snooze/internal/migrations/postgres"
	"github.com/garrettladley/snooze/internal/paths"
)

// serverDB is the subset of the server configuration the admin commands need.
type serverDB struct {
	URL string `env:"DATABASE_URL,required"`
}

func openPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := env.ParseAsWithOptions[serverDB](env.Options{Prefix: "SNOOZE_"})
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return pool, nil
}

func migrateCmd() *cobra.Command {
	var server bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Applies pending migrations to the local diary, or to the server database with --postgres.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if server {
				pool, err := openPostgres(ctx)
				if err != nil {
					return err
				}
				defer pool.Close()

				status, err := postgres.Status(ctx, pool)
				if err != nil {
					return err
				}
				printStatus(status)
				return nil
			}

			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			sqlDB, err := db.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = sqlDB.Close()
			}()

			status, err := migrations.Status(ctx, sqlDB)
			if err != nil {
				return err
			}
			printStatus(status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "postgres", false, "migrate the server database at SNOOZE_DATABASE_URL")
	return cmd
}

func printStatus(status []migrations.Migration) {
	for _, m := range status {
		state := "pending"
		if m.Applied {
			state = "applied"
		}
		fmt.Printf("%-40s %s\n", m.Name, state)
	}
}
