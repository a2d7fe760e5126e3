package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garrettladley/snooze/internal/sleep"
)

const sqliteSleepColumns = `id, date, time_got_into_bed, time_tried_to_sleep, final_awakening_time,
	time_got_out_of_bed, time_to_fall_asleep_mins, times_woke_up_count, total_awake_time_mins,
	time_trying_to_sleep_after_final_awakening_mins, sleep_quality_rating, wore_bite_guard,
	comments, created_at, updated_at`

type sqliteSleepRepo struct {
	db *sql.DB
}

func (r *sqliteSleepRepo) Upsert(ctx context.Context, record *sleep.Record) error {
	if _, err := sleep.ParseDate(record.Date); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	// the date is the natural key, so a re-import keeps the original id
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sleep_records (`+sqliteSleepColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			time_got_into_bed = excluded.time_got_into_bed,
			time_tried_to_sleep = excluded.time_tried_to_sleep,
			final_awakening_time = excluded.final_awakening_time,
			time_got_out_of_bed = excluded.time_got_out_of_bed,
			time_to_fall_asleep_mins = excluded.time_to_fall_asleep_mins,
			times_woke_up_count = excluded.times_woke_up_count,
			total_awake_time_mins = excluded.total_awake_time_mins,
			time_trying_to_sleep_after_final_awakening_mins = excluded.time_trying_to_sleep_after_final_awakening_mins,
			sleep_quality_rating = excluded.sleep_quality_rating,
			wore_bite_guard = excluded.wore_bite_guard,
			comments = excluded.comments,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		record.ID,
		record.Date,
		nullString(record.TimeGotIntoBed),
		nullString(record.TimeTriedToSleep),
		nullString(record.FinalAwakeningTime),
		nullString(record.TimeGotOutOfBed),
		nullInt(record.TimeToFallAsleepMins),
		nullInt(record.TimesWokeUpCount),
		nullInt(record.TotalAwakeTimeMins),
		nullInt(record.TimeTryingToSleepAfterFinalAwakeningMins),
		nullString(record.SleepQualityRating),
		nullBool(record.WoreBiteGuard),
		nullString(record.Comments),
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting sleep record %s: %w", record.Date, err)
	}
	return nil
}

func (r *sqliteSleepRepo) UpsertBatch(ctx context.Context, records []sleep.Record) error {
	for i := range records {
		if err := r.Upsert(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteSleepRepo) Get(ctx context.Context, date string) (*sleep.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteSleepColumns+` FROM sleep_records WHERE date = ?`, date)
	record, err := scanSQLiteSleep(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *sqliteSleepRepo) All(ctx context.Context) ([]sleep.Record, error) {
	return r.query(ctx, `SELECT `+sqliteSleepColumns+` FROM sleep_records ORDER BY date ASC`)
}

func (r *sqliteSleepRepo) List(ctx context.Context, cursor *CursorParams) (*CursorResult[sleep.Record], error) {
	limit := cursor.limit()

	var (
		records []sleep.Record
		err     error
	)
	if c := cursor.cursor(); c != nil {
		records, err = r.query(ctx,
			`SELECT `+sqliteSleepColumns+` FROM sleep_records WHERE date < ? ORDER BY date DESC LIMIT ?`,
			c.Format(sleep.DateLayout), limit+1)
	} else {
		records, err = r.query(ctx,
			`SELECT `+sqliteSleepColumns+` FROM sleep_records ORDER BY date DESC LIMIT ?`,
			limit+1)
	}
	if err != nil {
		return nil, err
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	return &CursorResult[sleep.Record]{
		Records:    records,
		NextCursor: dateCursor(records, hasMore),
	}, nil
}

func (r *sqliteSleepRepo) Delete(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sleep_records WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("deleting sleep record %s: %w", date, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteSleepRepo) query(ctx context.Context, query string, args ...any) ([]sleep.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sleep records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []sleep.Record
	for rows.Next() {
		record, err := scanSQLiteSleep(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanSQLiteSleep(row scanner) (sleep.Record, error) {
	var (
		record                                          sleep.Record
		intoBed, tried, finalAwake, outOfBed            sql.NullString
		quality, comments                               sql.NullString
		fallAsleep, wokeUp, awake, tryingAfterAwakening sql.NullInt64
		biteGuard                                       sql.NullBool
	)
	err := row.Scan(
		&record.ID,
		&record.Date,
		&intoBed,
		&tried,
		&finalAwake,
		&outOfBed,
		&fallAsleep,
		&wokeUp,
		&awake,
		&tryingAfterAwakening,
		&quality,
		&biteGuard,
		&comments,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sleep.Record{}, err
		}
		return sleep.Record{}, fmt.Errorf("scanning sleep record: %w", err)
	}

	record.TimeGotIntoBed = intoBed.String
	record.TimeTriedToSleep = tried.String
	record.FinalAwakeningTime = finalAwake.String
	record.TimeGotOutOfBed = outOfBed.String
	record.TimeToFallAsleepMins = intPtr(fallAsleep)
	record.TimesWokeUpCount = intPtr(wokeUp)
	record.TotalAwakeTimeMins = intPtr(awake)
	record.TimeTryingToSleepAfterFinalAwakeningMins = intPtr(tryingAfterAwakening)
	record.SleepQualityRating = quality.String
	record.WoreBiteGuard = boolPtr(biteGuard)
	record.Comments = comments.String
	return record, nil
}
