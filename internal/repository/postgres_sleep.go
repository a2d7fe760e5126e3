package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/snooze/internal/sleep"
)

const pgSleepSelect = `SELECT id, user_id, to_char(date, 'YYYY-MM-DD'),
	to_char(time_got_into_bed, 'HH24:MI'), to_char(time_tried_to_sleep, 'HH24:MI'),
	to_char(final_awakening_time, 'HH24:MI'), to_char(time_got_out_of_bed, 'HH24:MI'),
	time_to_fall_asleep_mins, times_woke_up_count, total_awake_time_mins,
	time_trying_to_sleep_after_final_awakening_mins, sleep_quality_rating, wore_bite_guard,
	comments, created_at, updated_at
	FROM sleep_records`

const pgSleepUpsert = `INSERT INTO sleep_records (
		id, user_id, date, time_got_into_bed, time_tried_to_sleep, final_awakening_time,
		time_got_out_of_bed, time_to_fall_asleep_mins, times_woke_up_count, total_awake_time_mins,
		time_trying_to_sleep_after_final_awakening_mins, sleep_quality_rating, wore_bite_guard, comments
	) VALUES ($1, $2, $3::date, $4::time, $5::time, $6::time, $7::time, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (user_id, date) DO UPDATE SET
		time_got_into_bed = EXCLUDED.time_got_into_bed,
		time_tried_to_sleep = EXCLUDED.time_tried_to_sleep,
		final_awakening_time = EXCLUDED.final_awakening_time,
		time_got_out_of_bed = EXCLUDED.time_got_out_of_bed,
		time_to_fall_asleep_mins = EXCLUDED.time_to_fall_asleep_mins,
		times_woke_up_count = EXCLUDED.times_woke_up_count,
		total_awake_time_mins = EXCLUDED.total_awake_time_mins,
		time_trying_to_sleep_after_final_awakening_mins = EXCLUDED.time_trying_to_sleep_after_final_awakening_mins,
		sleep_quality_rating = EXCLUDED.sleep_quality_rating,
		wore_bite_guard = EXCLUDED.wore_bite_guard,
		comments = EXCLUDED.comments,
		updated_at = NOW()
	RETURNING id, created_at, updated_at`

type pgSleepRepo struct {
	pool   *pgxpool.Pool
	userID string
}

func (r *pgSleepRepo) upsertArgs(record *sleep.Record) []any {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.UserID = r.userID
	return []any{
		record.ID,
		r.userID,
		record.Date,
		emptyToNil(record.TimeGotIntoBed),
		emptyToNil(record.TimeTriedToSleep),
		emptyToNil(record.FinalAwakeningTime),
		emptyToNil(record.TimeGotOutOfBed),
		record.TimeToFallAsleepMins,
		record.TimesWokeUpCount,
		record.TotalAwakeTimeMins,
		record.TimeTryingToSleepAfterFinalAwakeningMins,
		emptyToNil(record.SleepQualityRating),
		record.WoreBiteGuard,
		emptyToNil(record.Comments),
	}
}

func (r *pgSleepRepo) Upsert(ctx context.Context, record *sleep.Record) error {
	if _, err := sleep.ParseDate(record.Date); err != nil {
		return err
	}
	err := r.pool.QueryRow(ctx, pgSleepUpsert, r.upsertArgs(record)...).
		Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting sleep record %s: %w", record.Date, err)
	}
	return nil
}

// UpsertBatch sends every record in one round trip inside a transaction.
func (r *pgSleepRepo) UpsertBatch(ctx context.Context, records []sleep.Record) error {
	for i := range records {
		if _, err := sleep.ParseDate(records[i].Date); err != nil {
			return err
		}
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range records {
			record := &records[i]
			batch.Queue(pgSleepUpsert, r.upsertArgs(record)...).QueryRow(func(row pgx.Row) error {
				return row.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upserting sleep records: %w", err)
		}
		return nil
	})
}

func (r *pgSleepRepo) Get(ctx context.Context, date string) (*sleep.Record, error) {
	row := r.pool.QueryRow(ctx, pgSleepSelect+` WHERE user_id = $1 AND date = $2::date`, r.userID, date)
	record, err := scanPGSleep(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *pgSleepRepo) All(ctx context.Context) ([]sleep.Record, error) {
	return r.query(ctx, pgSleepSelect+` WHERE user_id = $1 ORDER BY date ASC`, r.userID)
}

func (r *pgSleepRepo) List(ctx context.Context, cursor *CursorParams) (*CursorResult[sleep.Record], error) {
	limit := cursor.limit()

	var (
		records []sleep.Record
		err     error
	)
	if c := cursor.cursor(); c != nil {
		records, err = r.query(ctx,
			pgSleepSelect+` WHERE user_id = $1 AND date < $2::date ORDER BY date DESC LIMIT $3`,
			r.userID, c.Format(sleep.DateLayout), limit+1)
	} else {
		records, err = r.query(ctx,
			pgSleepSelect+` WHERE user_id = $1 ORDER BY date DESC LIMIT $2`,
			r.userID, limit+1)
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

func (r *pgSleepRepo) Delete(ctx context.Context, date string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sleep_records WHERE user_id = $1 AND date = $2::date`, r.userID, date)
	if err != nil {
		return fmt.Errorf("deleting sleep record %s: %w", date, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgSleepRepo) query(ctx context.Context, query string, args ...any) ([]sleep.Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sleep records: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sleep.Record, error) {
		return scanPGSleep(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collecting sleep records: %w", err)
	}
	return records, nil
}

func scanPGSleep(row pgx.Row) (sleep.Record, error) {
	var (
		record                               sleep.Record
		intoBed, tried, finalAwake, outOfBed *string
		quality, comments                    *string
	)
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Date,
		&intoBed,
		&tried,
		&finalAwake,
		&outOfBed,
		&record.TimeToFallAsleepMins,
		&record.TimesWokeUpCount,
		&record.TotalAwakeTimeMins,
		&record.TimeTryingToSleepAfterFinalAwakeningMins,
		&quality,
		&record.WoreBiteGuard,
		&comments,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return sleep.Record{}, err
	}

	record.TimeGotIntoBed = deref(intoBed)
	record.TimeTriedToSleep = deref(tried)
	record.FinalAwakeningTime = deref(finalAwake)
	record.TimeGotOutOfBed = deref(outOfBed)
	record.SleepQualityRating = deref(quality)
	record.Comments = deref(comments)
	return record, nil
}
