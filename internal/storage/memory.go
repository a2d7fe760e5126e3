package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Backend = (*MemoryBackend)(nil)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend keeps rate limiters and cache entries in process. It is used
// when no redis URL is configured.
type MemoryBackend struct {
	limiters  map[string]*rate.Limiter
	limiterMu sync.RWMutex
	rateLimit rate.Limit
	rateBurst int

	entries   map[string]cacheEntry
	entriesMu sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryBackend(ratePerSec float64, burst int, cleanupInterval time.Duration) *MemoryBackend {
	m := &MemoryBackend{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		entries:   make(map[string]cacheEntry),
		done:      make(chan struct{}),
	}

	go m.cleanupLoop(cleanupInterval)

	return m
}

func (m *MemoryBackend) Allow(_ context.Context, key string) (RateLimitResult, error) {
	limiter := m.limiter(key)

	r := limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}
	return RateLimitResult{Allowed: true}, nil
}

func (m *MemoryBackend) limiter(key string) *rate.Limiter {
	m.limiterMu.RLock()
	limiter, exists := m.limiters[key]
	m.limiterMu.RUnlock()

	if exists {
		return limiter
	}

	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()

	if limiter, exists = m.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(m.rateLimit, m.rateBurst)
	m.limiters[key] = limiter
	return limiter
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.entriesMu.RLock()
	entry, ok := m.entries[key]
	m.entriesMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.value, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.entriesMu.Lock()
	m.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.entriesMu.Unlock()
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.entriesMu.Lock()
	delete(m.entries, key)
	m.entriesMu.Unlock()
	return nil
}

func (m *MemoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	m.entriesMu.Lock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.entriesMu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryBackend) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryBackend) cleanup() {
	now := time.Now()
	m.entriesMu.Lock()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.entriesMu.Unlock()

	// full buckets behave exactly like fresh limiters, so they can be dropped
	m.limiterMu.Lock()
	for key, limiter := range m.limiters {
		if limiter.TokensAt(now) >= float64(m.rateBurst) {
			delete(m.limiters, key)
		}
	}
	m.limiterMu.Unlock()
}
