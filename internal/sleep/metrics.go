package sleep

import (
	"fmt"
	"time"
)

// Record is one night of the sleep diary as entered by the user.
// Clock times are "HH:MM" strings, empty when not answered.
type Record struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
	Date   string `json:"date"`

	TimeGotIntoBed     string `json:"time_got_into_bed,omitempty"`
	TimeTriedToSleep   string `json:"time_tried_to_sleep,omitempty"`
	FinalAwakeningTime string `json:"final_awakening_time,omitempty"`
	TimeGotOutOfBed    string `json:"time_got_out_of_bed,omitempty"`

	TimeToFallAsleepMins                     *int `json:"time_to_fall_asleep_mins,omitempty"`
	TimesWokeUpCount                         *int `json:"times_woke_up_count,omitempty"`
	TotalAwakeTimeMins                       *int `json:"total_awake_time_mins,omitempty"`
	TimeTryingToSleepAfterFinalAwakeningMins *int `json:"time_trying_to_sleep_after_final_awakening_mins,omitempty"`

	SleepQualityRating string `json:"sleep_quality_rating,omitempty"`
	WoreBiteGuard      *bool  `json:"wore_bite_guard,omitempty"`
	Comments           string `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metrics are the figures derived from a single Record. A nil field means the
// inputs it depends on were absent.
type Metrics struct {
	Date string `json:"date"`

	TotalTimeInBed  *float64 `json:"total_time_in_bed"` // hours
	TotalTimeAsleep *float64 `json:"total_time_asleep"` // hours, never negative
	SleepEfficiency *float64 `json:"sleep_efficiency"`  // percent

	TimeToFallAsleepMinutes  *float64 `json:"time_to_fall_asleep_minutes"`
	TimeTryingToSleepMinutes *float64 `json:"time_trying_to_sleep_minutes"`
	TimeAwakeInNightMinutes  *float64 `json:"time_awake_in_night_minutes"`

	// BiteGuardUsage is 100 when the guard was worn, 0 when not, so that
	// averaging yields a usage percentage.
	BiteGuardUsage *float64 `json:"bite_guard_usage"`
}

// DeriveMetrics converts a record into its derived metrics. Clock times are
// interpreted as civil time in loc. It fails only on malformed clock times.
func DeriveMetrics(r Record, loc *time.Location) (Metrics, error) {
	m := Metrics{Date: r.Date}

	inBed, err := parseField("time_got_into_bed", r.TimeGotIntoBed)
	if err != nil {
		return Metrics{}, err
	}
	outOfBed, err := parseField("time_got_out_of_bed", r.TimeGotOutOfBed)
	if err != nil {
		return Metrics{}, err
	}
	triedToSleep, err := parseField("time_tried_to_sleep", r.TimeTriedToSleep)
	if err != nil {
		return Metrics{}, err
	}
	finalAwakening, err := parseField("final_awakening_time", r.FinalAwakeningTime)
	if err != nil {
		return Metrics{}, err
	}

	fallAsleepMins := nonZero(r.TimeToFallAsleepMins)
	m.TimeToFallAsleepMinutes = fallAsleepMins
	m.TimeTryingToSleepMinutes = nonZero(r.TimeTryingToSleepAfterFinalAwakeningMins)

	awakeMins := 0.0
	if r.TotalAwakeTimeMins != nil {
		awakeMins = float64(*r.TotalAwakeTimeMins)
	}
	m.TimeAwakeInNightMinutes = &awakeMins

	m.TotalTimeInBed, err = ElapsedHours(inBed, outOfBed, r.Date, loc)
	if err != nil {
		return Metrics{}, err
	}

	period, err := ElapsedHours(triedToSleep, finalAwakening, r.Date, loc)
	if err != nil {
		return Metrics{}, err
	}
	if period != nil {
		asleep := *period - awakeMins/60
		if fallAsleepMins != nil {
			asleep -= *fallAsleepMins / 60
		}
		asleep = max(asleep, 0)
		m.TotalTimeAsleep = &asleep
	}

	if m.TotalTimeAsleep != nil && m.TotalTimeInBed != nil && *m.TotalTimeInBed > 0 {
		efficiency := *m.TotalTimeAsleep / *m.TotalTimeInBed * 100
		m.SleepEfficiency = &efficiency
	}

	if r.WoreBiteGuard != nil {
		usage := 0.0
		if *r.WoreBiteGuard {
			usage = 100
		}
		m.BiteGuardUsage = &usage
	}

	return m, nil
}

// DeriveAll derives metrics for every record, preserving order.
func DeriveAll(records []Record, loc *time.Location) ([]Metrics, error) {
	out := make([]Metrics, 0, len(records))
	for _, r := range records {
		m, err := DeriveMetrics(r, loc)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.Date, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseField(name, value string) (*float64, error) {
	h, err := ParseClockTime(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return h, nil
}

// nonZero maps absent and zero minute counts to nil.
func nonZero(n *int) *float64 {
	if n == nil || *n == 0 {
		return nil
	}
	v := float64(*n)
	return &v
}
