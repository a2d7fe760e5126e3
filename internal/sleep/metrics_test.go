package sleep

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDeriveMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   Metrics
	}{
		{
			name: "complete night",
			record: Record{
				Date:                                     "2024-01-15",
				TimeGotIntoBed:                           "22:30",
				TimeTriedToSleep:                         "23:00",
				TimeToFallAsleepMins:                     ptr(20),
				TotalAwakeTimeMins:                       ptr(30),
				FinalAwakeningTime:                       "06:30",
				TimeGotOutOfBed:                          "07:00",
				TimeTryingToSleepAfterFinalAwakeningMins: ptr(15),
				WoreBiteGuard:                            ptr(true),
			},
			want: Metrics{
				Date:                     "2024-01-15",
				TotalTimeInBed:           ptr(8.5),
				TotalTimeAsleep:          ptr(7.5 - 20.0/60 - 30.0/60),
				SleepEfficiency:          ptr((7.5 - 20.0/60 - 30.0/60) / 8.5 * 100),
				TimeToFallAsleepMinutes:  ptr(20.0),
				TimeTryingToSleepMinutes: ptr(15.0),
				TimeAwakeInNightMinutes:  ptr(30.0),
				BiteGuardUsage:           ptr(100.0),
			},
		},
		{
			name: "no optional fields",
			record: Record{
				Date: "2024-01-15",
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TimeAwakeInNightMinutes: ptr(0.0),
			},
		},
		{
			name: "only in-bed times",
			record: Record{
				Date:            "2024-01-15",
				TimeGotIntoBed:  "23:00",
				TimeGotOutOfBed: "07:00",
				WoreBiteGuard:   ptr(false),
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TotalTimeInBed:          ptr(8.0),
				TimeAwakeInNightMinutes: ptr(0.0),
				BiteGuardUsage:          ptr(0.0),
			},
		},
		{
			name: "negative sleep is clamped to zero",
			record: Record{
				Date:                 "2024-01-15",
				TimeGotIntoBed:       "22:00",
				TimeTriedToSleep:     "23:00",
				TimeToFallAsleepMins: ptr(60),
				FinalAwakeningTime:   "23:30",
				TimeGotOutOfBed:      "23:45",
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TotalTimeInBed:          ptr(1.75),
				TotalTimeAsleep:         ptr(0.0),
				SleepEfficiency:         ptr(0.0),
				TimeToFallAsleepMinutes: ptr(60.0),
				TimeAwakeInNightMinutes: ptr(0.0),
			},
		},
		{
			name: "zero time in bed has no efficiency",
			record: Record{
				Date:               "2024-01-15",
				TimeGotIntoBed:     "07:00",
				TimeTriedToSleep:   "23:00",
				FinalAwakeningTime: "06:00",
				TimeGotOutOfBed:    "07:00",
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TotalTimeInBed:          ptr(0.0),
				TotalTimeAsleep:         ptr(7.0),
				TimeAwakeInNightMinutes: ptr(0.0),
			},
		},
		{
			name: "zero minute counts read as absent",
			record: Record{
				Date:                                     "2024-01-15",
				TimeToFallAsleepMins:                     ptr(0),
				TimeTryingToSleepAfterFinalAwakeningMins: ptr(0),
				TotalAwakeTimeMins:                       ptr(0),
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TimeAwakeInNightMinutes: ptr(0.0),
			},
		},
		{
			name: "null literals are absent",
			record: Record{
				Date:            "2024-01-15",
				TimeGotIntoBed:  "null",
				TimeGotOutOfBed: "07:00",
			},
			want: Metrics{
				Date:                    "2024-01-15",
				TimeAwakeInNightMinutes: ptr(0.0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DeriveMetrics(tt.record, time.UTC)
			if err != nil {
				t.Fatalf("DeriveMetrics() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("DeriveMetrics() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveMetricsMalformedClockTime(t *testing.T) {
	t.Parallel()

	_, err := DeriveMetrics(Record{Date: "2024-01-15", TimeGotIntoBed: "late"}, time.UTC)
	if !errors.Is(err, ErrMalformedClockTime) {
		t.Fatalf("DeriveMetrics() error = %v, want ErrMalformedClockTime", err)
	}
}

func TestDeriveMetricsInvariants(t *testing.T) {
	t.Parallel()

	clocks := []string{"", "00:00", "05:45", "07:00", "12:30", "21:15", "23:59"}
	minutes := []*int{nil, ptr(0), ptr(45), ptr(600)}

	for _, bed := range clocks {
		for _, out := range clocks {
			for _, awake := range minutes {
				r := Record{
					Date:               "2024-03-31",
					TimeGotIntoBed:     bed,
					TimeTriedToSleep:   bed,
					FinalAwakeningTime: out,
					TimeGotOutOfBed:    out,
					TotalAwakeTimeMins: awake,
				}
				m, err := DeriveMetrics(r, time.UTC)
				if err != nil {
					t.Fatalf("DeriveMetrics(%+v) unexpected error: %v", r, err)
				}
				if m.TotalTimeAsleep != nil && *m.TotalTimeAsleep < 0 {
					t.Errorf("DeriveMetrics(%+v) asleep = %v, want >= 0", r, *m.TotalTimeAsleep)
				}
				inBedPositive := m.TotalTimeInBed != nil && *m.TotalTimeInBed > 0
				if !inBedPositive && m.SleepEfficiency != nil {
					t.Errorf("DeriveMetrics(%+v) efficiency = %v, want nil", r, *m.SleepEfficiency)
				}
				if inBedPositive && m.TotalTimeAsleep != nil {
					want := 100 * *m.TotalTimeAsleep / *m.TotalTimeInBed
					assertHours(t, m.SleepEfficiency, &want, 1e-9)
				}
			}
		}
	}
}

func TestDeriveAll(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Date: "2024-01-16", TimeGotIntoBed: "23:00", TimeGotOutOfBed: "07:00"},
		{Date: "2024-01-15", TimeGotIntoBed: "22:00", TimeGotOutOfBed: "06:00"},
	}

	got, err := DeriveAll(records, time.UTC)
	if err != nil {
		t.Fatalf("DeriveAll() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2024-01-16" || got[1].Date != "2024-01-15" {
		t.Errorf("DeriveAll() did not preserve order: %+v", got)
	}

	_, err = DeriveAll(append(records, Record{Date: "2024-01-17", TimeGotOutOfBed: "7h"}), time.UTC)
	if !errors.Is(err, ErrMalformedClockTime) {
		t.Errorf("DeriveAll() error = %v, want ErrMalformedClockTime", err)
	}
}
