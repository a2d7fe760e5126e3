// Package dashboard builds sleep dashboards on top of a record repository,
// caching the result per user, range and window set.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xslog"
)

const (
	cacheKeyPrefix      = "dashboard:"
	generationKeyPrefix = "dashboard-generation:"
)

type Config struct {
	// Defaults supplies the trend windows, summary window and location used
	// when a query does not override them.
	Defaults sleep.Options
	// Cache is optional; the local CLI runs without one.
	Cache    storage.Cache
	CacheTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	defaults sleep.Options
	cache    storage.Cache
	ttl      time.Duration
	now      func() time.Time
}

func New(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		defaults: cfg.Defaults,
		cache:    cfg.Cache,
		ttl:      cfg.CacheTTL,
		now:      now,
	}
}

type Query struct {
	Range sleep.Range
	// TrendWindows overrides the configured windows when non-nil.
	TrendWindows []int
}

// ParseQuery reads the range and windows query parameters ("7d", "5,7,9").
func ParseQuery(rng, windows string) (Query, error) {
	r, err := sleep.ParseRange(rng)
	if err != nil {
		return Query{}, err
	}
	q := Query{Range: r}
	if windows = strings.TrimSpace(windows); windows != "" {
		if q.TrendWindows, err = ParseWindows(windows); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

var ErrInvalidWindows = errors.New("invalid trend windows")

// ParseWindows parses a comma-separated list of positive day counts.
func ParseWindows(s string) ([]int, error) {
	var windows []int
	for part := range strings.SplitSeq(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWindows, s)
		}
		windows = append(windows, n)
	}
	return windows, nil
}

func (s *Service) options(q Query) sleep.Options {
	opts := s.defaults
	opts.Range = q.Range
	if q.TrendWindows != nil {
		opts.TrendWindows = q.TrendWindows
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	opts.Location = loc
	opts.Today = s.now().In(loc)
	return opts
}

// Build returns the dashboard of the records in repo. hit reports whether it
// came from the cache. ownerID scopes the cache entry and may be empty when
// no cache is configured.
func (s *Service) Build(ctx context.Context, ownerID string, repo repository.SleepRepository, q Query) (dash sleep.Dashboard, hit bool, err error) {
	opts := s.options(q)

	// the generation is read before the records, so a dashboard built from
	// records that a concurrent write replaced is stored under a retired key
	var key string
	if s.cache != nil {
		gen, err := s.generation(ctx, ownerID)
		if err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "dashboard cache read failed", xslog.UserID(ownerID), xslog.Error(err))
		} else {
			key = s.cacheKey(ownerID, gen, opts)
		}
	}

	if key != "" {
		cached, err := storage.GetJSON[sleep.Dashboard](ctx, s.cache, key)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			xslog.FromContext(ctx).WarnContext(ctx, "dashboard cache read failed", xslog.CacheKey(key), xslog.Error(err))
		}
	}

	records, err := repo.All(ctx)
	if err != nil {
		return sleep.Dashboard{}, false, fmt.Errorf("loading sleep records: %w", err)
	}

	dash, err = sleep.BuildDashboard(records, opts)
	if err != nil {
		return sleep.Dashboard{}, false, err
	}

	if key != "" {
		if err := storage.SetJSON(ctx, s.cache, key, dash, s.ttl); err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "dashboard cache write failed", xslog.CacheKey(key), xslog.Error(err))
		}
	}

	return dash, false, nil
}

// Invalidate retires the cache generation of ownerID and drops every cached
// dashboard of theirs.
func (s *Service) Invalidate(ctx context.Context, ownerID string) error {
	if s.cache == nil {
		return nil
	}
	gen := []byte(uuid.NewString())
	if err := s.cache.Set(ctx, generationKeyPrefix+ownerID, gen, s.generationTTL()); err != nil {
		return fmt.Errorf("advancing dashboard generation: %w", err)
	}
	return s.cache.DeletePrefix(ctx, cacheKeyPrefix+ownerID+":")
}

// generation returns the current cache generation of ownerID, "0" until the
// first invalidation.
func (s *Service) generation(ctx context.Context, ownerID string) (string, error) {
	gen, err := s.cache.Get(ctx, generationKeyPrefix+ownerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "0", nil
	case err != nil:
		return "", err
	}
	return string(gen), nil
}

// generationTTL outlives every entry built under the generation.
func (s *Service) generationTTL() time.Duration {
	return s.ttl + 24*time.Hour
}

// cacheKey includes today's date because the trailing filter depends on it.
func (s *Service) cacheKey(ownerID, gen string, opts sleep.Options) string {
	windows := make([]string, len(opts.TrendWindows))
	for i, w := range opts.TrendWindows {
		windows[i] = strconv.Itoa(w)
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%s",
		cacheKeyPrefix,
		ownerID,
		gen,
		opts.Range,
		strings.Join(windows, ","),
		opts.SummaryWindow,
		opts.Today.Format(sleep.DateLayout),
	)
}
