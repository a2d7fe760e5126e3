package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
)

var ErrNotFound = errors.New("key not found")

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// Cache is a byte-valued store with per-entry TTLs.
type Cache interface {
	// Get returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key beginning with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

type Backend interface {
	RateLimiter
	Cache

	Close() error

	Ping(ctx context.Context) error
}

func GetJSON[T any](ctx context.Context, c Cache, key string) (T, error) {
	var v T
	data, err := c.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := go_json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return v, nil
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := go_json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cached value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
