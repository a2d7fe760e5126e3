package migrations_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/snooze/internal/db"
	"github.com/garrettladley/snooze/internal/migrations"
)

func TestStatements(t *testing.T) {
	t.Parallel()

	got := migrations.Statements("CREATE TABLE a (id INTEGER);\n\n  CREATE INDEX b ON a(id);\n;")
	want := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX b ON a(id)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Statements() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	got := migrations.Merge(
		[]string{"000001_sleep_records.sql", "000002_workouts.sql", "000003_shares.sql"},
		[]string{"000002_workouts.sql", "000001_sleep_records.sql", "000009_dropped.sql"},
	)
	want := []migrations.Migration{
		{Name: "000001_sleep_records.sql", Applied: true},
		{Name: "000002_workouts.sql", Applied: true},
		{Name: "000003_shares.sql", Applied: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilesSortedAndFiltered(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/000002_b.sql": {},
		"sql/000001_a.sql": {},
		"sql/README.md":    {},
	}

	got, err := migrations.Files(fsys, "sql")
	if err != nil {
		t.Fatalf("Files() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"000001_a.sql", "000002_b.sql"}, got); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	sqlDB, err := db.Open(ctx, db.Memory)
	if err != nil {
		t.Fatalf("db.Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.Apply(ctx, sqlDB); err != nil {
		t.Fatalf("second Apply() unexpected error: %v", err)
	}

	status, err := migrations.Status(ctx, sqlDB)
	if err != nil {
		t.Fatalf("Status() unexpected error: %v", err)
	}
	if len(status) == 0 {
		t.Fatal("Status() returned no migrations")
	}
	for _, m := range status {
		if !m.Applied {
			t.Errorf("migration %s not applied", m.Name)
		}
	}
}
