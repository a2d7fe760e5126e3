package sleep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   map[string]string
	}{
		{
			name:   "minimal record",
			record: Record{Date: "2024-01-15"},
			want:   nil,
		},
		{
			name: "complete record",
			record: Record{
				Date:                 "2024-01-15",
				TimeGotIntoBed:       "23:00",
				TimeTriedToSleep:     "23:10",
				FinalAwakeningTime:   "06:30",
				TimeGotOutOfBed:      "06:45",
				TimeToFallAsleepMins: ptr(0),
			},
			want: nil,
		},
		{
			name: "signed clock times",
			record: Record{
				Date:            "2024-01-15",
				TimeGotIntoBed:  "+7:+3",
				TimeGotOutOfBed: "-7:30",
			},
			want: map[string]string{
				"time_got_into_bed":   "must be an HH:MM clock time",
				"time_got_out_of_bed": "must be an HH:MM clock time",
			},
		},
		{
			name: "every problem reported",
			record: Record{
				Date:               "Jan 15",
				TimeGotIntoBed:     "25:00",
				TimesWokeUpCount:   ptr(-1),
				TotalAwakeTimeMins: ptr(10),
			},
			want: map[string]string{
				"date":                "must be a YYYY-MM-DD date",
				"time_got_into_bed":   "must be an HH:MM clock time",
				"times_woke_up_count": "must not be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, tt.record.Validate()); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordNormalized(t *testing.T) {
	t.Parallel()

	got := Record{
		Date:               "2024-01-15",
		TimeGotIntoBed:     " 22:45 ",
		TimeTriedToSleep:   "null",
		FinalAwakeningTime: "6:05:30",
		TimeGotOutOfBed:    "7:00:00",
	}.Normalized()

	want := Record{
		Date:               "2024-01-15",
		TimeGotIntoBed:     "22:45",
		TimeTriedToSleep:   "",
		FinalAwakeningTime: "06:05:30",
		TimeGotOutOfBed:    "07:00",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalized() mismatch (-want +got):\n%s", diff)
	}

	bad := Record{Date: "2024-01-15", TimeGotIntoBed: "25:00"}.Normalized()
	if bad.TimeGotIntoBed != "25:00" {
		t.Errorf("Normalized() rewrote malformed clock time to %q", bad.TimeGotIntoBed)
	}
}
