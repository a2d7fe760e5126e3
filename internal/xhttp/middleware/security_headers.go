package middleware

import (
	"net/http"
	"strings"

	"github.com/garrettladley/snooze/internal/xhttp"
)

const (
	// the API only ever returns JSON, so nothing may be loaded or framed
	contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	noStore               = "no-store"
)

// SecurityHeaders sets hardening headers on every response. Diary data is
// personal, so API and share responses are never stored by shared caches.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(xhttp.XContentTypeOpts, "nosniff")
		h.Set(xhttp.XFrameOpts, "DENY")
		h.Set(xhttp.ContentSecurityPolicy, contentSecurityPolicy)
		h.Set(xhttp.ReferrerPolicy, "no-referrer")
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/share/") {
			h.Set(xhttp.CacheControl, noStore)
		}
		next.ServeHTTP(w, r)
	})
}
