package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/garrettladley/snooze/internal/service/dashboard"
	shareservice "github.com/garrettladley/snooze/internal/service/share"
	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

type Shares struct {
	shares *shareservice.Service
}

func NewShares(shares *shareservice.Service) *Shares {
	return &Shares{shares: shares}
}

// HandleList handles GET /api/shares requests.
func (h *Shares) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	links, err := h.shares.List(ctx, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if links == nil {
		links = []share.Link{}
	}

	xhttp.WriteOK(w, links)
}

type createShareRequest struct {
	ExpiryDays int `json:"expiry_days"`
}

// HandleCreate handles POST /api/shares requests. An empty body creates a
// link with the default expiry.
func (h *Shares) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createShareRequest
	if err := xhttp.DecodeJSON(r, &req); err != nil && !errors.Is(err, xhttp.ErrEmptyBody) {
		decodeFailed(w, r, err)
		return
	}

	created, err := h.shares.Create(ctx, userID, req.ExpiryDays)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "created share link",
		xslog.ShareID(created.ID),
		xslog.End(created.ExpiresAt),
	)
	xhttp.WriteCreated(w, "/api/shares/"+created.ID, created)
}

// HandleDelete handles DELETE /api/shares/{id} requests.
func (h *Shares) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.shares.Delete(ctx, userID, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "revoked share link", xslog.ShareID(id))
	xhttp.WriteNoContent(w)
}

type Public struct {
	repos      Repositories
	shares     *shareservice.Service
	dashboards *dashboard.Service
}

func NewPublic(repos Repositories, shares *shareservice.Service, dashboards *dashboard.Service) *Public {
	return &Public{repos: repos, shares: shares, dashboards: dashboards}
}

type publicDashboard struct {
	Dashboard sleep.Dashboard `json:"dashboard"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// HandleDashboard handles GET /share/{token} requests: the read-only
// dashboard of the link's owner. Unknown tokens are 404, expired ones 410.
// Query params: range, windows
func (h *Public) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.PathValue("token")
	link, err := h.shares.Resolve(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	ctx = xslog.WithAttrs(ctx, xslog.ShareID(link.ID))

	q, err := dashboard.ParseQuery(r.URL.Query().Get("range"), r.URL.Query().Get("windows"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dash, hit, err := h.dashboards.Build(ctx, link.UserID, h.repos.ForUser(link.UserID).Sleep, q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).DebugContext(ctx, "served shared dashboard", xslog.Range(q.Range.String()))
	xhttp.SetHeaderCache(w, hit)
	xhttp.WriteOK(w, publicDashboard{Dashboard: dash, ExpiresAt: link.ExpiresAt})
}
