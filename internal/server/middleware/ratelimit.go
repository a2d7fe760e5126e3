package middleware

import (
	"net/http"

	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

const (
	reasonIPRateLimit   = "ip_rate_limit"
	reasonUserRateLimit = "user_rate_limit"
)

// RateLimitWithBackend applies IP-based rate limiting.
func RateLimitWithBackend(backend storage.RateLimiter) func(http.Handler) http.Handler {
	return rateLimit(backend, reasonIPRateLimit, func(r *http.Request) string {
		return "ip:" + xhttp.GetRequestIP(r)
	})
}

// RateLimitByUser limits authenticated requests per user, falling back to the
// client IP when no user is in context. It must run after APIKeyAuth.
func RateLimitByUser(backend storage.RateLimiter) func(http.Handler) http.Handler {
	return rateLimit(backend, reasonUserRateLimit, func(r *http.Request) string {
		if userID, ok := xcontext.GetUserID(r.Context()); ok {
			return "user:" + userID
		}
		return "ip:" + xhttp.GetRequestIP(r)
	})
}

func rateLimit(backend storage.RateLimiter, reason string, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := keyFunc(r)

			result, err := backend.Allow(ctx, key)
			if err != nil {
				xslog.FromContext(ctx).ErrorContext(ctx, "rate limit check failed",
					xslog.ErrorGroup(err),
					xslog.RequestIP(r),
				)
				xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("rate limit check failed")))
				return
			}

			if !result.Allowed {
				xerrors.WriteError(ctx, w, xerrors.TooManyRequests(xerrors.WithRetryAfter(result.RetryAfter), xerrors.WithReason(reason)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
