package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/service/dashboard"
	shareservice "github.com/garrettladley/snooze/internal/service/share"
	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/workout"
	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xhttp"
)

const maxPageSize = 1000

// Repositories hands out repositories scoped to a single user.
type Repositories interface {
	ForUser(userID string) *repository.Repository
}

type page[T any] struct {
	Records    []T        `json:"records"`
	NextCursor *time.Time `json:"next_cursor,omitempty"`
}

func newPage[T any](result *repository.CursorResult[T]) page[T] {
	records := result.Records
	if records == nil {
		records = []T{}
	}
	return page[T]{Records: records, NextCursor: result.NextCursor}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := xcontext.GetUserID(r.Context())
	if !ok {
		xerrors.WriteError(r.Context(), w, xerrors.Unauthorized(xerrors.WithMessage("missing user context")))
		return "", false
	}
	return userID, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := xhttp.DecodeJSON(r, v); err != nil {
		decodeFailed(w, r, err)
		return false
	}
	return true
}

func decodeFailed(w http.ResponseWriter, r *http.Request, err error) {
	xerrors.WriteError(r.Context(), w, xerrors.BadRequest(xerrors.WithMessage("invalid request body"), xerrors.WithCause(err)))
}

// parseCursor reads the limit and cursor query parameters. The cursor is a
// YYYY-MM-DD date or an RFC 3339 timestamp.
func parseCursor(r *http.Request) (*repository.CursorParams, error) {
	params := &repository.CursorParams{}
	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxPageSize {
			return nil, xerrors.BadRequest(xerrors.WithMessage("invalid limit parameter (must be 1-1000)"))
		}
		params.Limit = limit
	}

	if s := q.Get("cursor"); s != "" {
		cursor, err := sleep.ParseDate(s)
		if err != nil {
			cursor, err = time.Parse(time.RFC3339, s)
		}
		if err != nil {
			return nil, xerrors.BadRequest(xerrors.WithMessage("invalid cursor parameter (expected date or RFC 3339 timestamp)"))
		}
		params.Cursor = &cursor
	}

	return params, nil
}

// writeError maps domain errors onto HTTP errors.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if xerrors.As(err) != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, shareservice.ErrNotFound):
		xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithCause(err)))
	case errors.Is(err, share.ErrExpired):
		xerrors.WriteError(ctx, w, xerrors.Gone(xerrors.WithMessage("share link expired")))
	case errors.Is(err, sleep.ErrInvalidRange),
		errors.Is(err, sleep.ErrMalformedDate),
		errors.Is(err, sleep.ErrMalformedClockTime),
		errors.Is(err, dashboard.ErrInvalidWindows),
		errors.Is(err, share.ErrInvalidExpiry),
		errors.Is(err, workout.ErrMissingPayload),
		errors.Is(err, workout.ErrMalformedPayload):
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage(err.Error())))
	default:
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
	}
}
