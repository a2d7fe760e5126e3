// Package repository persists sleep records, workouts and share links.
// The local CLI stores a single diary in sqlite; the server stores every
// user's diary in postgres and scopes each Repository to one user.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/workout"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	Sleep    SleepRepository
	Workouts WorkoutRepository
}

type CursorParams struct {
	Limit  int
	Cursor *time.Time
}

type CursorResult[T any] struct {
	Records    []T
	NextCursor *time.Time
}

const DefaultPageSize = 50

func (c *CursorParams) limit() int {
	if c != nil && c.Limit > 0 {
		return c.Limit
	}
	return DefaultPageSize
}

func (c *CursorParams) cursor() *time.Time {
	if c == nil {
		return nil
	}
	return c.Cursor
}

// SleepRepository stores one record per date. Get returns nil, nil when no
// record exists for the date.
type SleepRepository interface {
	Upsert(ctx context.Context, record *sleep.Record) error
	UpsertBatch(ctx context.Context, records []sleep.Record) error
	Get(ctx context.Context, date string) (*sleep.Record, error)
	// All returns every record in ascending date order.
	All(ctx context.Context) ([]sleep.Record, error)
	// List pages through records newest first. The cursor is the date of the
	// last record of the previous page.
	List(ctx context.Context, cursor *CursorParams) (*CursorResult[sleep.Record], error)
	Delete(ctx context.Context, date string) error
}

type WorkoutRepository interface {
	Upsert(ctx context.Context, w *workout.Workout) error
	UpsertBatch(ctx context.Context, workouts []workout.Workout) error
	Get(ctx context.Context, id string) (*workout.Workout, error)
	GetByDateRange(ctx context.Context, start, end time.Time, cursor *CursorParams) (*CursorResult[workout.Workout], error)
	Delete(ctx context.Context, id string) error
}

// SyncRepository tracks which local rows have been pushed to the server.
type SyncRepository interface {
	UnsyncedSleep(ctx context.Context) ([]sleep.Record, error)
	UnsyncedWorkouts(ctx context.Context) ([]workout.Workout, error)
	MarkSleepSynced(ctx context.Context, ids []string, at time.Time) error
	MarkWorkoutsSynced(ctx context.Context, ids []string, at time.Time) error
}

type ShareRepository interface {
	Create(ctx context.Context, link *share.Link) error
	ListByUser(ctx context.Context, userID string) ([]share.Link, error)
	// GetByToken returns nil, nil for unknown tokens. Expiry is not checked.
	GetByToken(ctx context.Context, token string) (*share.Link, error)
	// Delete returns the token of the removed link.
	Delete(ctx context.Context, userID, id string) (string, error)
}

func dateCursor(records []sleep.Record, hasMore bool) *time.Time {
	if !hasMore || len(records) == 0 {
		return nil
	}
	t, err := sleep.ParseDate(records[len(records)-1].Date)
	if err != nil {
		return nil
	}
	return &t
}
