// Package xcontext carries request-scoped identifiers through a context.
package xcontext

import "context"

type key int

const (
	requestIDKey key = iota
	userIDKey
)

func set(ctx context.Context, k key, v string) context.Context {
	return context.WithValue(ctx, k, v)
}

// get reports false for missing and empty values alike.
func get(ctx context.Context, k key) (string, bool) {
	v, ok := ctx.Value(k).(string)
	return v, ok && v != ""
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return set(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) (string, bool) {
	return get(ctx, requestIDKey)
}

// SetUserID records the owner of the diary an authenticated request acts on.
func SetUserID(ctx context.Context, userID string) context.Context {
	return set(ctx, userIDKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	return get(ctx, userIDKey)
}
