package handler

import (
	"net/http"

	"github.com/garrettladley/snooze/internal/service/dashboard"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

type Dashboard struct {
	repos      Repositories
	dashboards *dashboard.Service
}

func NewDashboard(repos Repositories, dashboards *dashboard.Service) *Dashboard {
	return &Dashboard{repos: repos, dashboards: dashboards}
}

// HandleGet handles GET /api/dashboard requests.
// Query params: range (all, 7d, 14d, 30d, 90d), windows (comma-separated days)
func (h *Dashboard) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q, err := dashboard.ParseQuery(r.URL.Query().Get("range"), r.URL.Query().Get("windows"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dash, hit, err := h.dashboards.Build(ctx, userID, h.repos.ForUser(userID).Sleep, q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	xslog.FromContext(ctx).DebugContext(ctx, "built dashboard",
		xslog.Range(q.Range.String()),
		xslog.Count(dash.Records),
	)
	xhttp.SetHeaderCache(w, hit)
	xhttp.WriteOK(w, dash)
}
