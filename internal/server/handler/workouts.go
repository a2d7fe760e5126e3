package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/garrettladley/snooze/internal/service/record"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/validator"
	"github.com/garrettladley/snooze/internal/workout"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

type Workouts struct {
	repos   Repositories
	records *record.Service
	now     func() time.Time
}

func NewWorkouts(repos Repositories, records *record.Service) *Workouts {
	return &Workouts{repos: repos, records: records, now: time.Now}
}

// HandleList handles GET /api/workouts requests.
// Query params: range (all, 7d, 14d, 30d, 90d), cursor, limit
func (h *Workouts) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rng, err := sleep.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	cursor, err := parseCursor(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.records.Workouts(ctx, h.repos.ForUser(userID).Workouts, rng, h.now(), cursor)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	xhttp.WriteOK(w, newPage(result))
}

// HandleGet handles GET /api/workouts/{id} requests.
func (h *Workouts) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	wk, err := h.repos.ForUser(userID).Workouts.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if wk == nil {
		xerrors.WriteError(ctx, w, xerrors.NotFound(xerrors.WithMessage("workout not found")))
		return
	}

	xhttp.WriteOK(w, wk)
}

// HandleCreate handles POST /api/workouts requests with hand-entered fields.
func (h *Workouts) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var m workout.Manual
	if !decode(w, r, &m) {
		return
	}
	if verr := validator.Validate(m); verr != nil {
		xerrors.WriteError(ctx, w, verr)
		return
	}

	wk, err := workout.NewManual(m, userID, h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.save(w, r, userID, wk)
}

type haloRequest struct {
	URL string `json:"url"`
}

// HandleHalo handles POST /api/workouts/halo requests carrying a Halo share URL.
func (h *Workouts) HandleHalo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req haloRequest
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		xerrors.WriteError(ctx, w, xerrors.Validation(map[string]string{"url": "is required"}))
		return
	}

	payload, err := workout.ParseHaloURL(req.URL)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	wk, err := workout.FromHalo(payload, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.save(w, r, userID, wk)
}

func (h *Workouts) save(w http.ResponseWriter, r *http.Request, userID string, wk workout.Workout) {
	ctx := r.Context()

	workouts := []workout.Workout{wk}
	if err := h.records.SaveWorkouts(ctx, h.repos.ForUser(userID).Workouts, workouts); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "saved workout",
		xslog.WorkoutID(wk.ID),
		xslog.Date(wk.Date.Format(sleep.DateLayout)),
	)
	xhttp.WriteCreated(w, "/api/workouts/"+url.PathEscape(wk.ID), workouts[0])
}

// HandleBatch handles POST /api/workouts/batch requests, used by the CLI to
// push workouts recorded locally.
func (h *Workouts) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var workouts []workout.Workout
	if !decode(w, r, &workouts) {
		return
	}
	for i := range workouts {
		workouts[i].UserID = userID
	}

	if err := h.records.SaveWorkouts(ctx, h.repos.ForUser(userID).Workouts, workouts); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "saved workout batch", xslog.Count(len(workouts)))
	xhttp.WriteOK(w, batchResponse{Saved: len(workouts)})
}

// HandleDelete handles DELETE /api/workouts/{id} requests.
func (h *Workouts) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.repos.ForUser(userID).Workouts.Delete(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "deleted workout", xslog.WorkoutID(id))
	xhttp.WriteNoContent(w)
}
