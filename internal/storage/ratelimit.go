package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed ratelimit.lua
var slidingWindowSrc string

var slidingWindow = redis.NewScript(slidingWindowSrc)

// allowSlidingWindow records one request against key unless limit requests
// already fall inside the trailing window.
func allowSlidingWindow(ctx context.Context, rdb redis.Scripter, key string, limit int, window time.Duration) (RateLimitResult, error) {
	reply, err := slidingWindow.Run(ctx, rdb, []string{key}, window.Milliseconds(), limit).Int64Slice()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(reply) != 2 {
		return RateLimitResult{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, reply)
	}
	return RateLimitResult{
		Allowed:    reply[0] == 1,
		RetryAfter: time.Duration(reply[1]) * time.Millisecond,
	}, nil
}
