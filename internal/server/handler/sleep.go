package handler

import (
	"net/http"

	"github.com/garrettladley/snooze/internal/service/record"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

type Sleep struct {
	repos   Repositories
	records *record.Service
}

func NewSleep(repos Repositories, records *record.Service) *Sleep {
	return &Sleep{repos: repos, records: records}
}

// HandleList handles GET /api/sleep requests.
// Query params: cursor (date of the last record seen), limit (1-1000, default 50)
func (h *Sleep) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cursor, err := parseCursor(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.repos.ForUser(userID).Sleep.List(ctx, cursor)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).DebugContext(ctx, "listed sleep records", xslog.Count(len(result.Records)))
	xhttp.WriteOK(w, newPage(result))
}

// HandleGet handles GET /api/sleep/{date} requests.
func (h *Sleep) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	date := r.PathValue("date")
	if _, err := sleep.ParseDate(date); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, err := h.repos.ForUser(userID).Sleep.Get(ctx, date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if rec == nil {
		xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithMessage("no sleep record for "+date)))
		return
	}

	xhttp.WriteOK(w, rec)
}

// HandleCreate handles POST /api/sleep requests. A record for an existing
// date replaces it.
func (h *Sleep) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var rec sleep.Record
	if !decode(w, r, &rec) {
		return
	}

	h.save(w, r, userID, rec, http.StatusCreated)
}

// HandlePut handles PUT /api/sleep/{date} requests.
func (h *Sleep) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var rec sleep.Record
	if !decode(w, r, &rec) {
		return
	}

	date := r.PathValue("date")
	switch rec.Date {
	case "":
		rec.Date = date
	case date:
	default:
		xerrors.WriteError(ctx, w, xerrors.Validation(map[string]string{"date": "must match the date in the path"}))
		return
	}

	h.save(w, r, userID, rec, http.StatusOK)
}

func (h *Sleep) save(w http.ResponseWriter, r *http.Request, userID string, rec sleep.Record, status int) {
	ctx := r.Context()
	rec.UserID = userID

	records := []sleep.Record{rec}
	if err := h.records.SaveSleep(ctx, userID, h.repos.ForUser(userID).Sleep, records); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "saved sleep record", xslog.Date(rec.Date))
	if status == http.StatusCreated {
		xhttp.WriteCreated(w, "/api/sleep/"+rec.Date, records[0])
		return
	}
	xhttp.WriteOK(w, records[0])
}

type batchResponse struct {
	Saved int `json:"saved"`
}

// HandleBatch handles POST /api/sleep/batch requests. Either every record is
// stored or, when any fails validation, none are.
func (h *Sleep) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var records []sleep.Record
	if !decode(w, r, &records) {
		return
	}
	for i := range records {
		records[i].UserID = userID
	}

	if err := h.records.SaveSleep(ctx, userID, h.repos.ForUser(userID).Sleep, records); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "saved sleep batch", xslog.Count(len(records)))
	xhttp.WriteOK(w, batchResponse{Saved: len(records)})
}

// HandleDelete handles DELETE /api/sleep/{date} requests.
func (h *Sleep) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	date := r.PathValue("date")
	if err := h.records.DeleteSleep(ctx, userID, h.repos.ForUser(userID).Sleep, date); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "deleted sleep record", xslog.Date(date))
	xhttp.WriteNoContent(w)
}
