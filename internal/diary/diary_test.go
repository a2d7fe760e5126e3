package diary

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/garrettladley/snooze/internal/sleep"
)

func ptr[T any](v T) *T { return &v }

var now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	const input = `date,complete,time_got_into_bed,time_tried_to_sleep,time_to_fall_asleep_mins,times_woke_up_count,total_awake_time_mins,final_awakening_time,time_in_bed_after_final_awakening_mins,time_got_out_of_bed,sleep_quality_rating,additional_notes
Mar 8,true,22:45,23:00,15,2,20,6:30,10,6:45:00,Good,late dinner
Mar 9,True,null,null,null,null,null,null,null,null,null,null
Mar 7,false,22:00,22:10,5,0,0,6:00,0,6:10,Fair,
Dec 30,true,23:00,23:30,,,,07:00,,07:15,Poor,
,true,23:00,23:30,,,,07:00,,07:15,Poor,
Mar 6,true,25:00,23:30,,,,07:00,,07:15,Poor,
`

	res, err := ReadCSV(strings.NewReader(input), Options{Now: now})
	if err != nil {
		t.Fatalf("ReadCSV() unexpected error: %v", err)
	}

	want := []sleep.Record{
		{
			Date:                                     "2024-03-08",
			TimeGotIntoBed:                           "22:45",
			TimeTriedToSleep:                         "23:00",
			FinalAwakeningTime:                       "06:30",
			TimeGotOutOfBed:                          "06:45",
			TimeToFallAsleepMins:                     ptr(15),
			TimesWokeUpCount:                         ptr(2),
			TotalAwakeTimeMins:                       ptr(20),
			TimeTryingToSleepAfterFinalAwakeningMins: ptr(10),
			SleepQualityRating:                       "Good",
			Comments:                                 "late dinner",
		},
		{Date: "2024-03-09"},
		{
			Date:               "2023-12-30",
			TimeGotIntoBed:     "23:00",
			TimeTriedToSleep:   "23:30",
			FinalAwakeningTime: "07:00",
			TimeGotOutOfBed:    "07:15",
			SleepQualityRating: "Poor",
		},
	}
	if diff := cmp.Diff(want, res.Records, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadCSV() records mismatch (-want +got):\n%s", diff)
	}

	if len(res.Skipped) != 3 {
		t.Fatalf("skipped = %+v, want 3 entries", res.Skipped)
	}
	wantLines := []int{4, 6, 7}
	for i, s := range res.Skipped {
		if s.Line != wantLines[i] {
			t.Errorf("skipped[%d].Line = %d, want %d", i, s.Line, wantLines[i])
		}
	}
	if !strings.Contains(res.Skipped[2].Reason, "time_got_into_bed") {
		t.Errorf("skip reason = %q, want the offending column", res.Skipped[2].Reason)
	}
}

func TestReadCSVIncludeIncomplete(t *testing.T) {
	t.Parallel()

	const input = "date,complete,wore_bite_guard\n2024-03-07,false,yes\n"

	res, err := ReadCSV(strings.NewReader(input), Options{Now: now, IncludeIncomplete: true})
	if err != nil {
		t.Fatalf("ReadCSV() unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].WoreBiteGuard == nil || !*res.Records[0].WoreBiteGuard {
		t.Errorf("ReadCSV() records = %+v, want one record with bite guard worn", res.Records)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	t.Parallel()

	res, err := ReadCSV(strings.NewReader(""), Options{})
	if err != nil {
		t.Fatalf("ReadCSV() unexpected error: %v", err)
	}
	if len(res.Records) != 0 {
		t.Errorf("ReadCSV() = %+v, want nothing", res)
	}
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	const input = `[
		{"date": "2024-03-08", "complete": true, "time_got_into_bed": "22:5", "time_to_fall_asleep_mins": 12, "wore_bite_guard": false, "comments": null},
		{"date": "Mar 9", "complete": false},
		{"date": "2024-03-09", "time_to_fall_asleep_mins": 1.5}
	]`

	res, err := ReadJSON(strings.NewReader(input), Options{Now: now})
	if err != nil {
		t.Fatalf("ReadJSON() unexpected error: %v", err)
	}

	want := []sleep.Record{{
		Date:                 "2024-03-08",
		TimeGotIntoBed:       "22:05",
		TimeToFallAsleepMins: ptr(12),
		WoreBiteGuard:        ptr(false),
	}}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("ReadJSON() records mismatch (-want +got):\n%s", diff)
	}
	if len(res.Skipped) != 2 || res.Skipped[0].Line != 2 || res.Skipped[1].Line != 3 {
		t.Errorf("skipped = %+v, want entries 2 and 3", res.Skipped)
	}
}

func TestNormalizeClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "6:30", want: "06:30"},
		{input: "23:05", want: "23:05"},
		{input: "22:5", want: "22:05"},
		{input: "+7:30", wantErr: true},
		{input: "06:45:00", want: "06:45"},
		{input: "", want: ""},
		{input: "null", want: ""},
		{input: "24:00", wantErr: true},
		{input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeClock(tt.input)
			if tt.wantErr {
				if !errors.Is(err, sleep.ErrMalformedClockTime) {
					t.Fatalf("NormalizeClock(%q) error = %v, want ErrMalformedClockTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeClock(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeClock(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "2024-02-29", want: "2024-02-29"},
		{input: "Mar 10", want: "2024-03-10"},
		{input: "Mar 11", want: "2023-03-11"},
		{input: "January 5", want: "2024-01-05"},
		{input: "Feb 3, 2022", want: "2022-02-03"},
		{input: "", wantErr: ErrMissingDate},
		{input: "null", wantErr: ErrMissingDate},
		{input: "someday", wantErr: sleep.ErrMalformedDate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeDate(tt.input, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeDate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
