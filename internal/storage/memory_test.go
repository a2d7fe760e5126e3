package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestBackend(t *testing.T, ratePerSec float64, burst int) *MemoryBackend {
	t.Helper()
	m := NewMemoryBackend(ratePerSec, burst, time.Hour)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryBackendAllow(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	m := newTestBackend(t, 0.001, 2)

	for i := range 2 {
		res, err := m.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow() unexpected error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied within burst", i)
		}
	}

	res, err := m.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() unexpected error: %v", err)
	}
	if res.Allowed {
		t.Fatal("request beyond burst allowed")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", res.RetryAfter)
	}

	other, _ := m.Allow(ctx, "5.6.7.8")
	if !other.Allowed {
		t.Error("limits leaked across keys")
	}
}

func TestMemoryBackendCache(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	m := newTestBackend(t, 1, 1)

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := m.Set(ctx, "dashboard:u1:7d", []byte("a"), time.Minute); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := m.Set(ctx, "dashboard:u1:all", []byte("b"), time.Minute); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := m.Set(ctx, "dashboard:u2:7d", []byte("c"), time.Minute); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := m.Set(ctx, "expired", []byte("d"), -time.Second); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	got, err := m.Get(ctx, "dashboard:u1:7d")
	if err != nil || string(got) != "a" {
		t.Errorf("Get() = %q, %v; want %q", got, err, "a")
	}
	if _, err := m.Get(ctx, "expired"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}

	if err := m.DeletePrefix(ctx, "dashboard:u1:"); err != nil {
		t.Fatalf("DeletePrefix() unexpected error: %v", err)
	}
	for _, key := range []string{"dashboard:u1:7d", "dashboard:u1:all"} {
		if _, err := m.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s) after DeletePrefix error = %v, want ErrNotFound", key, err)
		}
	}
	if _, err := m.Get(ctx, "dashboard:u2:7d"); err != nil {
		t.Errorf("DeletePrefix removed another user's entry: %v", err)
	}

	m.cleanup()
	m.entriesMu.RLock()
	_, stillThere := m.entries["expired"]
	m.entriesMu.RUnlock()
	if stillThere {
		t.Error("cleanup() kept an expired entry")
	}
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name  string    `json:"name"`
		Value []float64 `json:"value"`
	}

	ctx := t.Context()
	m := newTestBackend(t, 1, 1)

	want := payload{Name: "7d", Value: []float64{7.5, 8}}
	if err := SetJSON(ctx, m, "k", want, time.Minute); err != nil {
		t.Fatalf("SetJSON() unexpected error: %v", err)
	}
	got, err := GetJSON[payload](ctx, m, "k")
	if err != nil {
		t.Fatalf("GetJSON() unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetJSON() mismatch (-want +got):\n%s", diff)
	}

	if _, err := GetJSON[payload](ctx, m, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON(missing) error = %v, want ErrNotFound", err)
	}
}
