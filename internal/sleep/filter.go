package sleep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range selects how many trailing days of records a view includes.
// RangeAll (the zero value) selects everything.
type Range int

const (
	RangeAll Range = 0

	Range7d  Range = 7
	Range14d Range = 14
	Range30d Range = 30
	Range90d Range = 90
)

const rangeAllName = "all"

var ErrInvalidRange = errors.New("invalid range")

// ParseRange accepts "all" or "<N>d" (a bare "<N>" is also accepted).
func ParseRange(s string) (Range, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == rangeAllName {
		return RangeAll, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || n <= 0 {
		return RangeAll, fmt.Errorf("%w: %q (valid: all, 7d, 14d, 30d, ...)", ErrInvalidRange, s)
	}
	return Range(n), nil
}

func (r Range) String() string {
	if r <= RangeAll {
		return rangeAllName
	}
	return strconv.Itoa(int(r)) + "d"
}

// FilterTrailing keeps the records dated strictly after today minus r days.
// With r = 7 and today 2024-01-30 the cutoff is 2024-01-23, which is excluded.
// RangeAll returns records unchanged.
func FilterTrailing(records []Record, r Range, today time.Time) []Record {
	if r <= RangeAll {
		return records
	}

	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -int(r)).Format(DateLayout)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Date > cutoff {
			out = append(out, rec)
		}
	}
	return out
}
