package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/workout"
)

type sqliteSyncRepo struct {
	db *sql.DB
}

func (r *sqliteSyncRepo) UnsyncedSleep(ctx context.Context) ([]sleep.Record, error) {
	repo := sqliteSleepRepo{db: r.db}
	return repo.query(ctx, `SELECT `+sqliteSleepColumns+` FROM sleep_records
		WHERE synced_at IS NULL OR synced_at < updated_at
		ORDER BY date ASC`)
}

func (r *sqliteSyncRepo) UnsyncedWorkouts(ctx context.Context) ([]workout.Workout, error) {
	repo := sqliteWorkoutRepo{db: r.db}
	return repo.query(ctx, `SELECT `+sqliteWorkoutColumns+` FROM workouts
		WHERE synced_at IS NULL
		ORDER BY date ASC`)
}

func (r *sqliteSyncRepo) MarkSleepSynced(ctx context.Context, ids []string, at time.Time) error {
	return r.mark(ctx, "sleep_records", ids, at)
}

func (r *sqliteSyncRepo) MarkWorkoutsSynced(ctx context.Context, ids []string, at time.Time) error {
	return r.mark(ctx, "workouts", ids, at)
}

func (r *sqliteSyncRepo) mark(ctx context.Context, table string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]any{at.UTC()}, anySlice(ids)...)
	query := fmt.Sprintf(`UPDATE %s SET synced_at = ? WHERE id IN (%s)`, table, placeholders(len(ids)))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("marking %s synced: %w", table, err)
	}
	return nil
}
