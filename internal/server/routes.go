package server

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/snooze/internal/server/handler"
	servermw "github.com/garrettladley/snooze/internal/server/middleware"
	"github.com/garrettladley/snooze/internal/service/dashboard"
	"github.com/garrettladley/snooze/internal/service/record"
	shareservice "github.com/garrettladley/snooze/internal/service/share"
	"github.com/garrettladley/snooze/internal/service/user"
	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xhttp/middleware"
)

type Deps struct {
	Logger      *slog.Logger
	RateLimiter storage.RateLimiter
	Users       user.Service
	Repos       handler.Repositories
	Records     *record.Service
	Dashboards  *dashboard.Service
	Shares      *shareservice.Service
}

// NewHandler wires every route and the shared middleware stack.
func NewHandler(d Deps) http.Handler {
	sleepHandler := handler.NewSleep(d.Repos, d.Records)
	dashboardHandler := handler.NewDashboard(d.Repos, d.Dashboards)
	workoutsHandler := handler.NewWorkouts(d.Repos, d.Records)
	sharesHandler := handler.NewShares(d.Shares)
	publicHandler := handler.NewPublic(d.Repos, d.Shares, d.Dashboards)

	mux := http.NewServeMux()

	// Unauthenticated routes - protected by IP rate limiter
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", handler.HandleHealth)
	publicMux.HandleFunc("GET /share/{token}", publicHandler.HandleDashboard)
	publicWrapped := middleware.Chain(publicMux,
		servermw.RateLimitWithBackend(d.RateLimiter),
	)
	mux.Handle("/health", publicWrapped)
	mux.Handle("/share/", publicWrapped)

	// Authenticated routes - protected by API key + per-user rate limiter
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/sleep", sleepHandler.HandleList)
	apiMux.HandleFunc("POST /api/sleep", sleepHandler.HandleCreate)
	apiMux.HandleFunc("POST /api/sleep/batch", sleepHandler.HandleBatch)
	apiMux.HandleFunc("GET /api/sleep/{date}", sleepHandler.HandleGet)
	apiMux.HandleFunc("PUT /api/sleep/{date}", sleepHandler.HandlePut)
	apiMux.HandleFunc("DELETE /api/sleep/{date}", sleepHandler.HandleDelete)
	apiMux.HandleFunc("GET /api/dashboard", dashboardHandler.HandleGet)
	apiMux.HandleFunc("GET /api/workouts", workoutsHandler.HandleList)
	apiMux.HandleFunc("POST /api/workouts", workoutsHandler.HandleCreate)
	apiMux.HandleFunc("POST /api/workouts/batch", workoutsHandler.HandleBatch)
	apiMux.HandleFunc("POST /api/workouts/halo", workoutsHandler.HandleHalo)
	apiMux.HandleFunc("GET /api/workouts/{id}", workoutsHandler.HandleGet)
	apiMux.HandleFunc("DELETE /api/workouts/{id}", workoutsHandler.HandleDelete)
	apiMux.HandleFunc("GET /api/shares", sharesHandler.HandleList)
	apiMux.HandleFunc("POST /api/shares", sharesHandler.HandleCreate)
	apiMux.HandleFunc("DELETE /api/shares/{id}", sharesHandler.HandleDelete)
	apiWrapped := middleware.Chain(apiMux,
		middleware.VersionCheck,
		servermw.APIKeyAuth(d.Users),
		servermw.RateLimitByUser(d.RateLimiter),
	)
	mux.Handle("/api/", apiWrapped)

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery,
		middleware.Logging,
		middleware.SecurityHeaders,
		middleware.Gzip,
	)
}
