package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xhttp"
)

type RequestIDMiddleware struct {
	IDFunc func(*http.Request) string
}

// incomingOrNewID keeps a well-formed ID set by a fronting proxy so its logs
// and ours correlate, and mints a UUID otherwise.
func incomingOrNewID(r *http.Request) string {
	if id := r.Header.Get(xhttp.XRequestID); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.NewString()
}

type RequestIDOption func(*RequestIDMiddleware)

func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(m *RequestIDMiddleware) { m.IDFunc = fn }
}

func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	m := RequestIDMiddleware{IDFunc: incomingOrNewID}
	for _, opt := range opts {
		opt(&m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := m.IDFunc(r)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(xcontext.SetRequestID(r.Context(), id)))
		})
	}
}
