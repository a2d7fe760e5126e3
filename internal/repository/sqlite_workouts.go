package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/snooze/internal/workout"
)

const sqliteWorkoutColumns = `id, date, source, duration_seconds, calories, distance_km, avg_speed_kmh,
	avg_pace, avg_heart_rate, max_heart_rate, avg_watts, raw_data, created_at`

type sqliteWorkoutRepo struct {
	db *sql.DB
}

func (r *sqliteWorkoutRepo) Upsert(ctx context.Context, w *workout.Workout) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	var raw sql.NullString
	if len(w.RawData) > 0 {
		raw = sql.NullString{String: string(w.RawData), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workouts (`+sqliteWorkoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			source = excluded.source,
			duration_seconds = excluded.duration_seconds,
			calories = excluded.calories,
			distance_km = excluded.distance_km,
			avg_speed_kmh = excluded.avg_speed_kmh,
			avg_pace = excluded.avg_pace,
			avg_heart_rate = excluded.avg_heart_rate,
			max_heart_rate = excluded.max_heart_rate,
			avg_watts = excluded.avg_watts,
			raw_data = excluded.raw_data,
			synced_at = NULL`,
		w.ID,
		w.Date.UTC(),
		string(w.Source),
		nullInt(w.DurationSeconds),
		nullInt(w.Calories),
		nullFloat(w.DistanceKm),
		nullFloat(w.AvgSpeedKmh),
		nullString(w.AvgPace),
		nullInt(w.AvgHeartRate),
		nullInt(w.MaxHeartRate),
		nullInt(w.AvgWatts),
		raw,
		w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting workout %s: %w", w.ID, err)
	}
	return nil
}

func (r *sqliteWorkoutRepo) UpsertBatch(ctx context.Context, workouts []workout.Workout) error {
	for i := range workouts {
		if err := r.Upsert(ctx, &workouts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteWorkoutRepo) Get(ctx context.Context, id string) (*workout.Workout, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteWorkoutColumns+` FROM workouts WHERE id = ?`, id)
	w, err := scanSQLiteWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *sqliteWorkoutRepo) GetByDateRange(ctx context.Context, start, end time.Time, cursor *CursorParams) (*CursorResult[workout.Workout], error) {
	limit := cursor.limit()

	var (
		workouts []workout.Workout
		err      error
	)
	if c := cursor.cursor(); c != nil {
		workouts, err = r.query(ctx,
			`SELECT `+sqliteWorkoutColumns+` FROM workouts
			WHERE date >= ? AND date < ? AND date < ?
			ORDER BY date DESC LIMIT ?`,
			start.UTC(), end.UTC(), c.UTC(), limit+1)
	} else {
		workouts, err = r.query(ctx,
			`SELECT `+sqliteWorkoutColumns+` FROM workouts
			WHERE date >= ? AND date < ?
			ORDER BY date DESC LIMIT ?`,
			start.UTC(), end.UTC(), limit+1)
	}
	if err != nil {
		return nil, err
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

func (r *sqliteWorkoutRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteWorkoutRepo) query(ctx context.Context, query string, args ...any) ([]workout.Workout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var workouts []workout.Workout
	for rows.Next() {
		w, err := scanSQLiteWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func scanSQLiteWorkout(row scanner) (workout.Workout, error) {
	var (
		w                                 workout.Workout
		source                            string
		duration, calories                sql.NullInt64
		distance, speed                   sql.NullFloat64
		pace, raw                         sql.NullString
		avgHeartRate, maxHeartRate, watts sql.NullInt64
	)
	err := row.Scan(
		&w.ID,
		&w.Date,
		&source,
		&duration,
		&calories,
		&distance,
		&speed,
		&pace,
		&avgHeartRate,
		&maxHeartRate,
		&watts,
		&raw,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workout.Workout{}, err
		}
		return workout.Workout{}, fmt.Errorf("scanning workout: %w", err)
	}

	w.Source = workout.Source(source)
	w.DurationSeconds = intPtr(duration)
	w.Calories = intPtr(calories)
	w.DistanceKm = floatPtr(distance)
	w.AvgSpeedKmh = floatPtr(speed)
	w.AvgPace = pace.String
	w.AvgHeartRate = intPtr(avgHeartRate)
	w.MaxHeartRate = intPtr(maxHeartRate)
	w.AvgWatts = intPtr(watts)
	if raw.Valid {
		w.RawData = go_json.RawMessage(raw.String)
	}
	return w, nil
}
