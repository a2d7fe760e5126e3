package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/garrettladley/snooze/internal/service/user"
	"github.com/garrettladley/snooze/internal/xcontext"
	"github.com/garrettladley/snooze/internal/xerrors"
	"github.com/garrettladley/snooze/internal/xhttp"
	"github.com/garrettladley/snooze/internal/xslog"
)

const touchTimeout = 5 * time.Second

// APIKeyAuth resolves the bearer API key to its owner and stores the owner's
// user ID in the request context. Unauthenticated requests get a 401 with a
// Bearer challenge.
func APIKeyAuth(users user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := xhttp.GetRequestHeaderAPIKey(r)
			if key == "" {
				w.Header().Set(xhttp.WWWAuthenticate, `Bearer realm="snooze"`)
				xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("missing API key")))
				return
			}

			owner, err := users.ValidateAPIKey(ctx, key)
			if err != nil {
				appErr := authError(err)
				if appErr.StatusCode == http.StatusUnauthorized {
					w.Header().Set(xhttp.WWWAuthenticate, `Bearer realm="snooze", error="invalid_token"`)
				}
				xerrors.WriteError(ctx, w, appErr)
				return
			}

			go touch(ctx, users, owner.APIKeyID)

			ctx = xcontext.SetUserID(ctx, owner.UserID)
			ctx = xslog.WithAttrs(ctx, xslog.UserID(owner.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authError(err error) *xerrors.Error {
	switch {
	case errors.Is(err, user.ErrAPIKeyNotFound):
		return xerrors.Unauthorized(xerrors.WithMessage("invalid API key"))
	case errors.Is(err, user.ErrAPIKeyRevoked):
		return xerrors.Unauthorized(xerrors.WithMessage("API key has been revoked"))
	case errors.Is(err, user.ErrUserBanned):
		return xerrors.Forbidden(xerrors.WithMessage("account banned"))
	default:
		return xerrors.Internal(xerrors.WithMessage("API key validation failed"), xerrors.WithCause(err))
	}
}

// touch records key use outside the request so a slow write never delays
// the response.
func touch(ctx context.Context, users user.Service, keyID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), touchTimeout)
	defer cancel()

	if err := users.UpdateAPIKeyLastUsed(ctx, keyID); err != nil {
		xslog.FromContext(ctx).WarnContext(ctx, "failed to record API key use", xslog.ErrorGroup(err))
	}
}
