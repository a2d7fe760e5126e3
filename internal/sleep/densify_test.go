package sleep

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDensify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entries      []Metrics
		wantDates    []string
		wantOriginal []int
	}{
		{
			name:         "empty",
			entries:      nil,
			wantDates:    nil,
			wantOriginal: nil,
		},
		{
			name:         "single entry",
			entries:      []Metrics{{Date: "2024-01-15"}},
			wantDates:    []string{"2024-01-15"},
			wantOriginal: []int{0},
		},
		{
			name: "fills gaps",
			entries: []Metrics{
				{Date: "2024-01-01", TotalTimeInBed: ptr(8.0)},
				{Date: "2024-01-04", TotalTimeInBed: ptr(7.0)},
			},
			wantDates:    []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"},
			wantOriginal: []int{0, 3},
		},
		{
			name: "unsorted input",
			entries: []Metrics{
				{Date: "2024-01-03"},
				{Date: "2024-01-01"},
			},
			wantDates:    []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			wantOriginal: []int{0, 2},
		},
		{
			name: "leap day and month boundary",
			entries: []Metrics{
				{Date: "2024-02-28"},
				{Date: "2024-03-01"},
			},
			wantDates:    []string{"2024-02-28", "2024-02-29", "2024-03-01"},
			wantOriginal: []int{0, 2},
		},
		{
			name: "spans a DST change",
			entries: []Metrics{
				{Date: "2024-03-30"},
				{Date: "2024-04-01"},
			},
			wantDates:    []string{"2024-03-30", "2024-03-31", "2024-04-01"},
			wantOriginal: []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Densify(tt.entries)
			if err != nil {
				t.Fatalf("Densify() unexpected error: %v", err)
			}

			var dates []string
			for _, e := range got.Entries {
				dates = append(dates, e.Date)
			}
			if diff := cmp.Diff(tt.wantDates, dates); diff != "" {
				t.Errorf("Densify() dates mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantOriginal, got.Original); diff != "" {
				t.Errorf("Densify() original mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDensifyFilledEntriesAreEmpty(t *testing.T) {
	t.Parallel()

	got, err := Densify([]Metrics{
		{Date: "2024-05-01", TotalTimeInBed: ptr(8.0), TimeAwakeInNightMinutes: ptr(10.0)},
		{Date: "2024-05-31", TotalTimeInBed: ptr(7.5), BiteGuardUsage: ptr(100.0)},
	})
	if err != nil {
		t.Fatalf("Densify() unexpected error: %v", err)
	}

	if len(got.Entries) != 31 {
		t.Fatalf("Densify() len = %d, want 31", len(got.Entries))
	}

	original := map[int]bool{}
	for _, i := range got.Original {
		original[i] = true
	}
	for i, e := range got.Entries {
		if original[i] {
			continue
		}
		if diff := cmp.Diff(Metrics{Date: e.Date}, e); diff != "" {
			t.Errorf("filled entry %d is not empty (-want +got):\n%s", i, diff)
		}
	}
}

func TestDensifyDuplicateDateKeepsLatest(t *testing.T) {
	t.Parallel()

	got, err := Densify([]Metrics{
		{Date: "2024-01-01", TotalTimeInBed: ptr(6.0)},
		{Date: "2024-01-01", TotalTimeInBed: ptr(9.0)},
	})
	if err != nil {
		t.Fatalf("Densify() unexpected error: %v", err)
	}
	if len(got.Entries) != 1 || *got.Entries[0].TotalTimeInBed != 9.0 {
		t.Errorf("Densify() = %+v, want single entry with 9h in bed", got.Entries)
	}
}

func TestDensifyMalformedDate(t *testing.T) {
	t.Parallel()

	_, err := Densify([]Metrics{{Date: "01/02/2024"}})
	if !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("Densify() error = %v, want ErrMalformedDate", err)
	}
}

func TestDenseProjection(t *testing.T) {
	t.Parallel()

	dense, err := Densify([]Metrics{
		{Date: "2024-01-01", TotalTimeInBed: ptr(8.0)},
		{Date: "2024-01-03", TotalTimeInBed: ptr(6.0)},
	})
	if err != nil {
		t.Fatalf("Densify() unexpected error: %v", err)
	}

	column := MetricTimeInBed.Column(dense.Entries)
	projected := dense.Project(RollingAverage(column, 3))

	if diff := cmp.Diff([]string{"2024-01-01", "2024-01-03"}, dense.OriginalDates()); diff != "" {
		t.Errorf("OriginalDates() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Series{ptr(8.0), ptr(7.0)}, projected); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}
}
