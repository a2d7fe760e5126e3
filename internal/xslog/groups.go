package xslog

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/snooze/internal/xcontext"
)

// RequestGroup describes r under "request". The route is the matched
// ServeMux pattern, so /share/{token} is logged without the token.
func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{RequestMethod(r), RequestIP(r)}
	if r.Pattern != "" {
		attrs = append(attrs, slog.String("route", r.Pattern))
	} else {
		attrs = append(attrs, RequestPath(r))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}
	if id, ok := xcontext.GetRequestID(r.Context()); ok {
		attrs = append(attrs, slog.String("id", id))
	}
	return slog.GroupAttrs("request", attrs...)
}

func ResponseGroup(status, bytes int, elapsed time.Duration) slog.Attr {
	return slog.GroupAttrs("response",
		HTTPStatus(status),
		Bytes(bytes),
		Duration(elapsed),
	)
}

func ErrorGroup(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.GroupAttrs("error",
		slog.String("message", err.Error()),
		slog.String("type", fmt.Sprintf("%T", err)),
	)
}

// PanicGroup records a recovered panic value with the current stack.
func PanicGroup(rec any) slog.Attr {
	return slog.GroupAttrs("panic",
		slog.Any("value", rec),
		slog.String("type", fmt.Sprintf("%T", rec)),
		Stack(),
	)
}
