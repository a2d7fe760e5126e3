// Package diary imports sleep-diary exports (CSV or JSON) into sleep records.
package diary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/garrettladley/snooze/internal/sleep"
)

const nullLiteral = "null"

var (
	ErrMissingDate = errors.New("missing date")
	ErrIncomplete  = errors.New("entry marked incomplete")
)

// column aliases of the exporting app, mapped onto record fields
const (
	colDate                     = "date"
	colComplete                 = "complete"
	colTimeGotIntoBed           = "time_got_into_bed"
	colTimeTriedToSleep         = "time_tried_to_sleep"
	colTimeToFallAsleepMins     = "time_to_fall_asleep_mins"
	colTimesWokeUpCount         = "times_woke_up_count"
	colTotalAwakeTimeMins       = "total_awake_time_mins"
	colFinalAwakeningTime       = "final_awakening_time"
	colTimeInBedAfterFinalMins  = "time_in_bed_after_final_awakening_mins"
	colTimeTryingAfterFinalMins = "time_trying_to_sleep_after_final_awakening_mins"
	colTimeGotOutOfBed          = "time_got_out_of_bed"
	colSleepQualityRating       = "sleep_quality_rating"
	colWoreBiteGuard            = "wore_bite_guard"
	colComments                 = "comments"
	colAdditionalNotes          = "additional_notes"
)

type Options struct {
	// Now anchors year inference for dates exported without a year.
	Now time.Time
	// IncludeIncomplete keeps entries whose complete column is false.
	IncludeIncomplete bool
}

// Skip describes an entry that was not imported.
type Skip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Records []sleep.Record `json:"records"`
	Skipped []Skip         `json:"skipped,omitempty"`
}

func (r *Result) add(line int, fields map[string]string, opts Options) {
	rec, err := parseEntry(fields, opts)
	if err != nil {
		r.Skipped = append(r.Skipped, Skip{Line: line, Reason: err.Error()})
		return
	}
	r.Records = append(r.Records, rec)
}

func parseEntry(fields map[string]string, opts Options) (sleep.Record, error) {
	if complete, ok := fields[colComplete]; ok && !opts.IncludeIncomplete {
		if v, err := parseBool(complete); err != nil || v == nil || !*v {
			return sleep.Record{}, ErrIncomplete
		}
	}

	date, err := NormalizeDate(fields[colDate], opts.Now)
	if err != nil {
		return sleep.Record{}, err
	}

	rec := sleep.Record{
		Date:               date,
		SleepQualityRating: clean(fields[colSleepQualityRating]),
		Comments:           firstNonEmpty(clean(fields[colComments]), clean(fields[colAdditionalNotes])),
	}

	clocks := []struct {
		col string
		dst *string
	}{
		{colTimeGotIntoBed, &rec.TimeGotIntoBed},
		{colTimeTriedToSleep, &rec.TimeTriedToSleep},
		{colFinalAwakeningTime, &rec.FinalAwakeningTime},
		{colTimeGotOutOfBed, &rec.TimeGotOutOfBed},
	}
	for _, c := range clocks {
		if *c.dst, err = NormalizeClock(fields[c.col]); err != nil {
			return sleep.Record{}, fmt.Errorf("%s: %w", c.col, err)
		}
	}

	counts := []struct {
		cols []string
		dst  **int
	}{
		{[]string{colTimeToFallAsleepMins}, &rec.TimeToFallAsleepMins},
		{[]string{colTimesWokeUpCount}, &rec.TimesWokeUpCount},
		{[]string{colTotalAwakeTimeMins}, &rec.TotalAwakeTimeMins},
		{[]string{colTimeTryingAfterFinalMins, colTimeInBedAfterFinalMins}, &rec.TimeTryingToSleepAfterFinalAwakeningMins},
	}
	for _, c := range counts {
		for _, col := range c.cols {
			v, err := parseInt(fields[col])
			if err != nil {
				return sleep.Record{}, fmt.Errorf("%s: %w", col, err)
			}
			if v != nil {
				*c.dst = v
				break
			}
		}
	}

	if rec.WoreBiteGuard, err = parseBool(fields[colWoreBiteGuard]); err != nil {
		return sleep.Record{}, fmt.Errorf("%s: %w", colWoreBiteGuard, err)
	}

	return rec, nil
}

// NormalizeClock rewrites "H:MM", "HH:MM" or "HH:MM:SS" as "HH:MM". Exports
// that drop the leading zero of the minutes ("22:5") are padded first.
// Empty values and "null" normalise to "".
func NormalizeClock(s string) (string, error) {
	h, err := sleep.ParseClockTime(padClock(clean(s)))
	if err != nil || h == nil {
		return "", err
	}
	total := int(math.Round(*h * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func padClock(s string) string {
	parts := strings.Split(s, ":")
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, ":")
}

var yearlessLayouts = []string{"Jan 2", "January 2", "Jan 02"}

var datedLayouts = []string{time.DateOnly, "Jan 2 2006", "Jan 2, 2006", "January 2, 2006", "2006/01/02"}

// NormalizeDate returns a YYYY-MM-DD date. Dates exported without a year
// ("Jan 15") take the year of now, or the previous year when that would put
// them in the future.
func NormalizeDate(s string, now time.Time) (string, error) {
	s = clean(s)
	if s == "" {
		return "", ErrMissingDate
	}
	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(sleep.DateLayout), nil
		}
	}
	if now.IsZero() {
		now = time.Now()
	}
	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		if d.After(now) {
			d = d.AddDate(-1, 0, 0)
		}
		return d.Format(sleep.DateLayout), nil
	}
	return "", fmt.Errorf("%w: %q", sleep.ErrMalformedDate, s)
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, nullLiteral) {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseInt(s string) (*int, error) {
	s = clean(s)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, fmt.Errorf("not a whole number: %q", s)
	}
	n := int(f)
	return &n, nil
}

func parseBool(s string) (*bool, error) {
	s = strings.ToLower(clean(s))
	var v bool
	switch s {
	case "":
		return nil, nil
	case "yes", "y":
		v = true
	case "no", "n":
		v = false
	default:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", s)
		}
		v = b
	}
	return &v, nil
}
