package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/snooze/internal/db"
	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/workout"
	"github.com/garrettladley/snooze/internal/xerrors"
)

type countingInvalidator struct {
	owners []string
}

func (c *countingInvalidator) Invalidate(_ context.Context, ownerID string) error {
	c.owners = append(c.owners, ownerID)
	return nil
}

func newRepo(t *testing.T) *repository.Local {
	t.Helper()
	sqlDB, err := db.Open(t.Context(), db.Memory)
	if err != nil {
		t.Fatalf("db.Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return repository.NewSQLite(sqlDB)
}

func TestSaveSleep(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := newRepo(t)
	inv := &countingInvalidator{}
	svc := New(inv)

	records := []sleep.Record{
		{Date: "2024-01-01", TimeGotIntoBed: "23:00"},
		{Date: "2024-01-02", TimeGotIntoBed: "22:45"},
	}
	if err := svc.SaveSleep(ctx, "local", repo.Sleep, records); err != nil {
		t.Fatalf("SaveSleep() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"local"}, inv.owners); diff != "" {
		t.Errorf("invalidations mismatch (-want +got):\n%s", diff)
	}

	all, err := repo.Sleep.All(ctx)
	if err != nil {
		t.Fatalf("All() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("stored %d records, want 2", len(all))
	}
}

func TestSaveSleepNormalizesClockTimes(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := newRepo(t)
	svc := New(nil)

	err := svc.SaveSleep(ctx, "local", repo.Sleep, []sleep.Record{
		{Date: "2024-01-01", TimeGotIntoBed: "null", TimeTriedToSleep: " 22:45 ", TimeGotOutOfBed: "7:05"},
	})
	if err != nil {
		t.Fatalf("SaveSleep() unexpected error: %v", err)
	}

	all, err := repo.Sleep.All(ctx)
	if err != nil {
		t.Fatalf("All() unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("stored %d records, want 1", len(all))
	}
	got := all[0]
	if got.TimeGotIntoBed != "" || got.TimeTriedToSleep != "22:45" || got.TimeGotOutOfBed != "07:05" {
		t.Errorf("stored clock times = %q, %q, %q, want \"\", \"22:45\", \"07:05\"",
			got.TimeGotIntoBed, got.TimeTriedToSleep, got.TimeGotOutOfBed)
	}
}

func TestSaveSleepValidatesBeforeWriting(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := newRepo(t)
	inv := &countingInvalidator{}
	svc := New(inv)

	err := svc.SaveSleep(ctx, "local", repo.Sleep, []sleep.Record{
		{Date: "2024-01-01"},
		{Date: "2024-01-02", TimeGotOutOfBed: "7am"},
	})

	xerr := xerrors.As(err)
	if xerr == nil || xerr.Validation == nil {
		t.Fatalf("SaveSleep() error = %v, want validation error", err)
	}
	want := map[string]string{"[1].time_got_out_of_bed": "must be an HH:MM clock time"}
	if diff := cmp.Diff(want, xerr.Validation.Fields); diff != "" {
		t.Errorf("validation fields mismatch (-want +got):\n%s", diff)
	}

	all, _ := repo.Sleep.All(ctx)
	if len(all) != 0 {
		t.Errorf("stored %d records after a failed batch, want 0", len(all))
	}
	if len(inv.owners) != 0 {
		t.Error("cache invalidated after a failed batch")
	}
}

func TestSaveSleepSingleRecordFieldsAreUnprefixed(t *testing.T) {
	t.Parallel()

	svc := New(nil)
	err := svc.SaveSleep(t.Context(), "", newRepo(t).Sleep, []sleep.Record{{Date: "yesterday"}})

	xerr := xerrors.As(err)
	if xerr == nil || xerr.Validation == nil {
		t.Fatalf("SaveSleep() error = %v, want validation error", err)
	}
	if _, ok := xerr.Validation.Fields["date"]; !ok {
		t.Errorf("fields = %v, want an unprefixed date entry", xerr.Validation.Fields)
	}
}

func TestDeleteSleep(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := newRepo(t)
	svc := New(nil)

	if err := svc.SaveSleep(ctx, "", repo.Sleep, []sleep.Record{{Date: "2024-01-01"}}); err != nil {
		t.Fatalf("SaveSleep() unexpected error: %v", err)
	}
	if err := svc.DeleteSleep(ctx, "", repo.Sleep, "2024-01-01"); err != nil {
		t.Fatalf("DeleteSleep() unexpected error: %v", err)
	}
	if err := svc.DeleteSleep(ctx, "", repo.Sleep, "2024-01-01"); !IsNotFound(err) {
		t.Errorf("DeleteSleep(missing) error = %v, want not found", err)
	}
	if xerr := xerrors.As(svc.DeleteSleep(ctx, "", repo.Sleep, "01/01/2024")); xerr == nil || xerr.Validation == nil {
		t.Errorf("DeleteSleep(malformed) error = %v, want validation error", xerr)
	}
}

func TestSaveAndListWorkouts(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	repo := newRepo(t)
	svc := New(nil)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	err := svc.SaveWorkouts(ctx, repo.Workouts, []workout.Workout{
		{ID: "recent", Date: now.AddDate(0, 0, -2), Source: workout.SourceManual},
		{ID: "old", Date: now.AddDate(0, 0, -40), Source: workout.SourceManual},
	})
	if err != nil {
		t.Fatalf("SaveWorkouts() unexpected error: %v", err)
	}

	page, err := svc.Workouts(ctx, repo.Workouts, sleep.Range7d, now, nil)
	if err != nil {
		t.Fatalf("Workouts() unexpected error: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].ID != "recent" {
		t.Errorf("Workouts(7d) = %+v, want only the recent workout", page.Records)
	}

	page, err = svc.Workouts(ctx, repo.Workouts, sleep.RangeAll, now, nil)
	if err != nil {
		t.Fatalf("Workouts() unexpected error: %v", err)
	}
	if len(page.Records) != 2 {
		t.Errorf("Workouts(all) returned %d workouts, want 2", len(page.Records))
	}

	err = svc.SaveWorkouts(ctx, repo.Workouts, []workout.Workout{{Source: workout.SourceManual}})
	if xerr := xerrors.As(err); xerr == nil || xerr.Validation == nil {
		t.Errorf("SaveWorkouts(no id) error = %v, want validation error", err)
	}
	if !errors.Is(repo.Workouts.Delete(ctx, "missing"), repository.ErrNotFound) {
		t.Error("Delete(missing) did not report ErrNotFound")
	}
}
