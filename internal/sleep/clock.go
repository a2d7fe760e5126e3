package sleep

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of every record date. Dates in this layout compare
// lexicographically in chronological order.
const DateLayout = time.DateOnly

const nullLiteral = "null"

var (
	ErrMalformedClockTime = errors.New("malformed clock time")
	ErrMalformedDate      = errors.New("malformed date")
)

// ParseClockTime parses "HH:MM" (or "HH:MM:SS", as stored by postgres time columns)
// into fractional hours. Empty strings and the literal "null" mean absent.
func ParseClockTime(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == nullLiteral {
		return nil, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedClockTime, s)
	}

	limits := [...]int{23, 59, 59}
	var fields [3]int
	for i, p := range parts {
		// the hour may be one digit; minutes and seconds are always two
		if !isDigits(p) || len(p) > 2 || (i > 0 && len(p) != 2) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedClockTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > limits[i] {
			return nil, fmt.Errorf("%w: %q", ErrMalformedClockTime, s)
		}
		fields[i] = n
	}

	hours := float64(fields[0]) + float64(fields[1])/60 + float64(fields[2])/3600
	return &hours, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeClock rewrites a clock time accepted by ParseClockTime as "HH:MM",
// or "HH:MM:SS" when it carries seconds. Absent values normalise to "".
func NormalizeClock(s string) (string, error) {
	h, err := ParseClockTime(s)
	if err != nil || h == nil {
		return "", err
	}
	secs := int(math.Round(*h * 3600))
	if secs%60 == 0 {
		return fmt.Sprintf("%02d:%02d", secs/3600, secs/60%60), nil
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60), nil
}

// ElapsedHours returns the real elapsed time between two clock times, the later of
// which falls on anchor (a DateLayout date). When end is earlier than start the start
// is taken to be on the day before anchor.
//
// Both endpoints are resolved to civil instants in loc, so nights that cross a
// daylight-saving transition report the time that actually passed.
func ElapsedHours(start, end *float64, anchor string, loc *time.Location) (*float64, error) {
	if start == nil || end == nil {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(DateLayout, anchor, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDate, anchor)
	}

	startDay := day
	if *end < *start {
		startDay = day.AddDate(0, 0, -1)
	}

	from := civilInstant(startDay, *start, loc)
	to := civilInstant(day, *end, loc)

	hours := to.Sub(from).Hours()
	return &hours, nil
}

// civilInstant builds the wall-clock instant at the given fractional hour of day.
// Fractional hours are carried as nanoseconds so sub-minute input survives.
func civilInstant(day time.Time, hours float64, loc *time.Location) time.Time {
	ns := int64(math.Round(hours * float64(time.Hour)))

	var (
		h    = ns / int64(time.Hour)
		m    = (ns % int64(time.Hour)) / int64(time.Minute)
		sec  = (ns % int64(time.Minute)) / int64(time.Second)
		nsec = ns % int64(time.Second)
	)

	y, mon, d := day.Date()
	return time.Date(y, mon, d, int(h), int(m), int(sec), int(nsec), loc)
}

// ParseDate parses a DateLayout date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}
