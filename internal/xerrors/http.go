package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError renders err as JSON. Errors that are not an *Error are
// reported as 500 without exposing their text.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	xhttp.SetHeaderContentTypeApplicationJSON(w)
	if rl := appErr.RateLimit; rl != nil {
		if rl.RetryAfter > 0 {
			xhttp.SetHeaderRetryAfter(w, rl.RetryAfter)
		}
		if rl.Reason != "" {
			w.Header().Set(xhttp.XRateLimitReason, rl.Reason)
		}
	}
	w.WriteHeader(appErr.StatusCode)

	resp := errorResponse{Message: appErr.Message, Fields: appErr.Fields()}
	resp.RequestID, _ = xcontext.GetRequestID(ctx)

	_ = go_json.NewEncoder(w).Encode(resp)
}

func logError(ctx context.Context, err *Error) {
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}
	if err.RateLimit != nil {
		attrs = append(attrs, slog.Any("rate_limit", err.RateLimit))
	}
	if fields := err.Fields(); fields != nil {
		attrs = append(attrs, slog.Any("fields", fields))
	}

	logger := xslog.FromContext(ctx)
	switch {
	case err.StatusCode >= 500:
		logger.ErrorContext(ctx, "server error", attrs...)
	case err.StatusCode == http.StatusUnauthorized,
		err.StatusCode == http.StatusForbidden,
		err.StatusCode == http.StatusNotFound:
		// routine for a CLI that probes with stale keys and old share links
		logger.InfoContext(ctx, "client error", attrs...)
	default:
		logger.WarnContext(ctx, "client error", attrs...)
	}
}
