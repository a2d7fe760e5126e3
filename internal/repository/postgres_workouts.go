package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/snooze/internal/workout"
)

const pgWorkoutSelect = `SELECT id, user_id, date, source, duration_seconds, calories, distance_km,
	avg_speed_kmh, avg_pace, avg_heart_rate, max_heart_rate, avg_watts, raw_data, created_at
	FROM workouts`

const pgWorkoutUpsert = `INSERT INTO workouts (
		id, user_id, date, source, duration_seconds, calories, distance_km, avg_speed_kmh,
		avg_pace, avg_heart_rate, max_heart_rate, avg_watts, raw_data
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb)
	ON CONFLICT (id) DO UPDATE SET
		date = EXCLUDED.date,
		source = EXCLUDED.source,
		duration_seconds = EXCLUDED.duration_seconds,
		calories = EXCLUDED.calories,
		distance_km = EXCLUDED.distance_km,
		avg_speed_kmh = EXCLUDED.avg_speed_kmh,
		avg_pace = EXCLUDED.avg_pace,
		avg_heart_rate = EXCLUDED.avg_heart_rate,
		max_heart_rate = EXCLUDED.max_heart_rate,
		avg_watts = EXCLUDED.avg_watts,
		raw_data = EXCLUDED.raw_data
	WHERE workouts.user_id = EXCLUDED.user_id
	RETURNING created_at`

type pgWorkoutRepo struct {
	pool   *pgxpool.Pool
	userID string
}

func (r *pgWorkoutRepo) upsertArgs(w *workout.Workout) []any {
	w.UserID = r.userID
	var raw *string
	if len(w.RawData) > 0 {
		s := string(w.RawData)
		raw = &s
	}
	return []any{
		w.ID,
		r.userID,
		w.Date,
		string(w.Source),
		w.DurationSeconds,
		w.Calories,
		w.DistanceKm,
		w.AvgSpeedKmh,
		emptyToNil(w.AvgPace),
		w.AvgHeartRate,
		w.MaxHeartRate,
		w.AvgWatts,
		raw,
	}
}

func (r *pgWorkoutRepo) Upsert(ctx context.Context, w *workout.Workout) error {
	err := r.pool.QueryRow(ctx, pgWorkoutUpsert, r.upsertArgs(w)...).Scan(&w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// the id belongs to another user
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("upserting workout %s: %w", w.ID, err)
	}
	return nil
}

func (r *pgWorkoutRepo) UpsertBatch(ctx context.Context, workouts []workout.Workout) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range workouts {
			w := &workouts[i]
			batch.Queue(pgWorkoutUpsert, r.upsertArgs(w)...).QueryRow(func(row pgx.Row) error {
				err := row.Scan(&w.CreatedAt)
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("workout %s: %w", w.ID, ErrNotFound)
				}
				return err
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upserting workouts: %w", err)
		}
		return nil
	})
}

func (r *pgWorkoutRepo) Get(ctx context.Context, id string) (*workout.Workout, error) {
	row := r.pool.QueryRow(ctx, pgWorkoutSelect+` WHERE user_id = $1 AND id = $2`, r.userID, id)
	w, err := scanPGWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *pgWorkoutRepo) GetByDateRange(ctx context.Context, start, end time.Time, cursor *CursorParams) (*CursorResult[workout.Workout], error) {
	limit := cursor.limit()

	var (
		rows pgx.Rows
		err  error
	)
	if c := cursor.cursor(); c != nil {
		rows, err = r.pool.Query(ctx,
			pgWorkoutSelect+` WHERE user_id = $1 AND date >= $2 AND date < $3 AND date < $4
			ORDER BY date DESC LIMIT $5`,
			r.userID, start, end, *c, limit+1)
	} else {
		rows, err = r.pool.Query(ctx,
			pgWorkoutSelect+` WHERE user_id = $1 AND date >= $2 AND date < $3
			ORDER BY date DESC LIMIT $4`,
			r.userID, start, end, limit+1)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}

	workouts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (workout.Workout, error) {
		return scanPGWorkout(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collecting workouts: %w", err)
	}

	hasMore := len(workouts) > limit
	if hasMore {
		workouts = workouts[:limit]
	}

	result := &CursorResult[workout.Workout]{Records: workouts}
	if hasMore && len(workouts) > 0 {
		last := workouts[len(workouts)-1].Date
		result.NextCursor = &last
	}
	return result, nil
}

func (r *pgWorkoutRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE user_id = $1 AND id = $2`, r.userID, id)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPGWorkout(row pgx.Row) (workout.Workout, error) {
	var (
		w      workout.Workout
		source string
		pace   *string
		raw    []byte
	)
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Date,
		&source,
		&w.DurationSeconds,
		&w.Calories,
		&w.DistanceKm,
		&w.AvgSpeedKmh,
		&pace,
		&w.AvgHeartRate,
		&w.MaxHeartRate,
		&w.AvgWatts,
		&raw,
		&w.CreatedAt,
	)
	if err != nil {
		return workout.Workout{}, err
	}

	w.Source = workout.Source(source)
	w.AvgPace = deref(pace)
	if len(raw) > 0 {
		w.RawData = go_json.RawMessage(raw)
	}
	return w, nil
}
