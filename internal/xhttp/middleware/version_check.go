package middleware

import (
	"net/http"

	"github.com/garrettladley/snooze/internal/version"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xslog"
)

// VersionCheck rejects clients whose major version differs from the server's.
// Requests without a version header (browsers, curl) pass through.
func VersionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientVersion := r.Header.Get(version.Header)
		if clientVersion == "" {
			next.ServeHTTP(w, r)
			return
		}

		if verr := version.CheckCompatibility(clientVersion); verr != nil {
			xslog.FromContext(r.Context()).WarnContext(
				r.Context(),
				"client version incompatible",
				xslog.ClientVersion(verr.ClientVersion),
				xslog.ServerVersion(verr.ServerVersion),
				xslog.RequestPath(r),
			)
			xerrors.WriteError(r.Context(), w, xerrors.UpgradeRequired(xerrors.WithMessage(verr.Error())))
			return
		}

		next.ServeHTTP(w, r)
	})
}
