package sleep

import (
	"cmp"
	"slices"
)

// Dense is a per-calendar-day run of metrics with all-nil entries for the days
// that had no record. Original holds the positions of the entries that came from
// real records, in ascending order.
type Dense struct {
	Entries  []Metrics
	Original []int
}

// Densify fills the gaps between the earliest and latest dates so that there is
// exactly one entry per day. Input order does not matter; if a date repeats, the
// later entry wins.
func Densify(entries []Metrics) (Dense, error) {
	if len(entries) == 0 {
		return Dense{}, nil
	}

	byDate := make(map[string]Metrics, len(entries))
	for _, e := range entries {
		if _, err := ParseDate(e.Date); err != nil {
			return Dense{}, err
		}
		byDate[e.Date] = e
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, cmp.Compare[string])

	first, _ := ParseDate(dates[0])
	last, _ := ParseDate(dates[len(dates)-1])
	days := int(last.Sub(first).Hours()/24) + 1

	dense := Dense{
		Entries:  make([]Metrics, 0, days),
		Original: make([]int, 0, len(dates)),
	}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		if e, ok := byDate[date]; ok {
			dense.Original = append(dense.Original, len(dense.Entries))
			dense.Entries = append(dense.Entries, e)
			continue
		}
		dense.Entries = append(dense.Entries, Metrics{Date: date})
	}

	return dense, nil
}

// OriginalDates returns the dates of the entries that came from records.
func (d Dense) OriginalDates() []string {
	dates := make([]string, 0, len(d.Original))
	for _, i := range d.Original {
		dates = append(dates, d.Entries[i].Date)
	}
	return dates
}

// Project picks the values at the original (non-filled) positions.
func (d Dense) Project(s Series) Series {
	out := make(Series, 0, len(d.Original))
	for _, i := range d.Original {
		if i < len(s) {
			out = append(out, s[i])
		}
	}
	return out
}
