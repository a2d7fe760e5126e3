// Package record validates and stores diary entries and workouts, keeping
// cached dashboards consistent with the stored data.
package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/validator"
	"github.com/garrettladley/snooze/internal/workout"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xslog"
)

// MaxBatchSize bounds a single SaveSleep or SaveWorkouts call.
const MaxBatchSize = 1000

var ErrBatchTooLarge = fmt.Errorf("batch exceeds %d entries", MaxBatchSize)

type Invalidator interface {
	Invalidate(ctx context.Context, ownerID string) error
}

type Service struct {
	dashboards Invalidator
}

func New(dashboards Invalidator) *Service {
	return &Service{dashboards: dashboards}
}

// SaveSleep validates every record before storing any of them, then stores
// them with normalised clock times. Validation failures are returned as a
// single *xerrors.Error; with more than one record the field names are
// prefixed by the record's position.
func (s *Service) SaveSleep(ctx context.Context, ownerID string, repo repository.SleepRepository, records []sleep.Record) error {
	if len(records) > MaxBatchSize {
		return xerrors.BadRequest(xerrors.WithMessage(ErrBatchTooLarge.Error()))
	}

	if verr := validator.ValidateAll(records); verr != nil {
		return verr
	}

	normalized := make([]sleep.Record, len(records))
	for i, rec := range records {
		normalized[i] = rec.Normalized()
	}
	records = normalized

	var err error
	if len(records) == 1 {
		err = repo.Upsert(ctx, &records[0])
	} else {
		err = repo.UpsertBatch(ctx, records)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	return nil
}

func (s *Service) DeleteSleep(ctx context.Context, ownerID string, repo repository.SleepRepository, date string) error {
	if _, err := sleep.ParseDate(date); err != nil {
		return xerrors.Validation(map[string]string{"date": "must be a YYYY-MM-DD date"})
	}
	if err := repo.Delete(ctx, date); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// SaveWorkouts stores workouts; they do not feed the sleep dashboard.
func (s *Service) SaveWorkouts(ctx context.Context, repo repository.WorkoutRepository, workouts []workout.Workout) error {
	if len(workouts) > MaxBatchSize {
		return xerrors.BadRequest(xerrors.WithMessage(ErrBatchTooLarge.Error()))
	}

	if verr := validator.ValidateAll(workouts); verr != nil {
		return verr
	}

	if len(workouts) == 1 {
		return repo.Upsert(ctx, &workouts[0])
	}
	return repo.UpsertBatch(ctx, workouts)
}

// Workouts returns the workouts dated within the trailing range, newest first.
func (s *Service) Workouts(ctx context.Context, repo repository.WorkoutRepository, rng sleep.Range, now time.Time, cursor *repository.CursorParams) (*repository.CursorResult[workout.Workout], error) {
	start := time.Unix(0, 0).UTC()
	if rng > sleep.RangeAll {
		start = now.AddDate(0, 0, -int(rng))
	}
	return repo.GetByDateRange(ctx, start, now.Add(time.Minute), cursor)
}

func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.dashboards == nil {
		return
	}
	if err := s.dashboards.Invalidate(ctx, ownerID); err != nil {
		xslog.FromContext(ctx).WarnContext(ctx, "dashboard cache invalidation failed", xslog.UserID(ownerID), xslog.Error(err))
	}
}

// IsNotFound reports whether err means the addressed entry does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
