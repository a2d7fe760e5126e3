package snooze

import (
	"net/url"
	"strconv"
	"time"

	"github.com/garrettladley/snooze/internal/sleep"
)

type ListParams struct {
	Limit  int
	Cursor *time.Time
	// Range applies to workouts only.
	Range sleep.Range
}

func (p *ListParams) values() url.Values {
	if p == nil {
		return nil
	}

	v := make(url.Values)
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Cursor != nil {
		v.Set("cursor", p.Cursor.Format(time.RFC3339))
	}
	if p.Range != sleep.RangeAll {
		v.Set("range", p.Range.String())
	}
	return v
}

type Page[T any] struct {
	Records    []T        `json:"records"`
	NextCursor *time.Time `json:"next_cursor,omitempty"`
}

func (p *Page[T]) HasMore() bool {
	return p.NextCursor != nil
}
