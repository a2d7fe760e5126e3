package main

import (
	"errors"
	"testing"
)

func TestNextMigrationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		label    string
		want     string
		wantErr  error
	}{
		{name: "first migration", label: "sleep_records", want: "000001_sleep_records.sql"},
		{
			name:     "after the highest number",
			existing: []string{"000001_sleep_records.sql", "000004_share_links.sql", "000002_workouts.sql"},
			label:    "api keys",
			want:     "000005_api_keys.sql",
		},
		{
			name:     "ignores unnumbered files",
			existing: []string{"seed.sql", "000001_sleep_records.sql"},
			label:    "Add-Index",
			want:     "000002_add_index.sql",
		},
		{name: "collapses punctuation", label: "  drop   old/table!! ", want: "000001_drop_old_table.sql"},
		{name: "rejects empty labels", label: "--", wantErr: errEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := nextMigrationName(tt.existing, tt.label)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("nextMigrationName() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("nextMigrationName() = %q, want %q", got, tt.want)
			}
		})
	}
}
