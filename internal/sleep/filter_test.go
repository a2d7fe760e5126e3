package sleep

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func datesOf(records []Record) []string {
	dates := make([]string, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}
	return dates
}

func recordsOn(dates ...string) []Record {
	records := make([]Record, len(dates))
	for i, d := range dates {
		records[i] = Record{Date: d}
	}
	return records
}

func TestFilterTrailing(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.January, 30, 21, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []Record
		rng     Range
		want    []string
	}{
		{
			name:    "sparse sample keeps only the last week",
			records: recordsOn("2024-01-10", "2024-01-22", "2024-01-25", "2024-01-30"),
			rng:     Range7d,
			want:    []string{"2024-01-25", "2024-01-30"},
		},
		{
			name:    "cutoff day is excluded, the day after is kept",
			records: recordsOn("2024-01-23", "2024-01-24", "2024-01-30"),
			rng:     Range7d,
			want:    []string{"2024-01-24", "2024-01-30"},
		},
		{
			name:    "all returns input unchanged",
			records: recordsOn("2024-01-30", "2023-06-01", "2024-01-01"),
			rng:     RangeAll,
			want:    []string{"2024-01-30", "2023-06-01", "2024-01-01"},
		},
		{
			name:    "order is preserved",
			records: recordsOn("2024-01-29", "2024-01-20", "2024-01-28"),
			rng:     Range14d,
			want:    []string{"2024-01-29", "2024-01-20", "2024-01-28"},
		},
		{
			name:    "crosses a year boundary",
			records: recordsOn("2023-12-31", "2024-01-01", "2024-01-02"),
			rng:     Range30d,
			want:    []string{"2024-01-01", "2024-01-02"},
		},
		{
			name:    "empty input",
			records: nil,
			rng:     Range7d,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := datesOf(FilterTrailing(tt.records, tt.rng, today))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterTrailing() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterTrailingDailyRecords(t *testing.T) {
	t.Parallel()

	var records []Record
	for day := 1; day <= 30; day++ {
		records = append(records, Record{Date: time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)})
	}

	got := datesOf(FilterTrailing(records, Range7d, time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)))
	want := []string{"2024-01-24", "2024-01-25", "2024-01-26", "2024-01-27", "2024-01-28", "2024-01-29", "2024-01-30"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterTrailing() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Range
		wantErr bool
	}{
		{input: "all", want: RangeAll},
		{input: "", want: RangeAll},
		{input: "7d", want: Range7d},
		{input: "14D", want: Range14d},
		{input: "30d", want: Range30d},
		{input: "90", want: Range90d},
		{input: "0d", wantErr: true},
		{input: "-7d", wantErr: true},
		{input: "week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRange(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("ParseRange(%q) error = %v, want ErrInvalidRange", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRangeString(t *testing.T) {
	t.Parallel()

	if got := RangeAll.String(); got != "all" {
		t.Errorf("RangeAll.String() = %q, want %q", got, "all")
	}
	if got := Range14d.String(); got != "14d" {
		t.Errorf("Range14d.String() = %q, want %q", got, "14d")
	}
}
