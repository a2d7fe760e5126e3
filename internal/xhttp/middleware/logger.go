package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/snooze/internal/version"
	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xslog"
)

// Logger puts a request-scoped logger into the context, tagged with the
// request ID and, for CLI requests, the client version.
// Must run after RequestID.
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var attrs []any
			if id, ok := xcontext.GetRequestID(r.Context()); ok {
				attrs = append(attrs, xslog.RequestID(id))
			}
			if v := r.Header.Get(version.Header); v != "" {
				attrs = append(attrs, xslog.ClientVersion(v))
			}

			logger := base
			if len(attrs) > 0 {
				logger = base.With(attrs...)
			}
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
