package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/garrettladley/snooze/internal/storage"
)

type fakeService struct {
	Service
	calls   int
	users   map[string]*ValidatedUser
	revoked []int64
}

func (f *fakeService) ValidateAPIKey(_ context.Context, apiKey string) (*ValidatedUser, error) {
	f.calls++
	u, ok := f.users[apiKey]
	if !ok {
		return nil, ErrAPIKeyNotFound
	}
	return u, nil
}

func (f *fakeService) RevokeAPIKey(_ context.Context, apiKeyID int64) error {
	f.revoked = append(f.revoked, apiKeyID)
	return nil
}

func TestGenerateAPIKey(t *testing.T) {
	t.Parallel()

	key, err := generateAPIKey()
	if err != nil {
		t.Fatalf("generateAPIKey() unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, apiKeyPrefix) {
		t.Errorf("key %q missing prefix %q", key, apiKeyPrefix)
	}
	if !IsAPIKey(key) {
		t.Errorf("IsAPIKey(%q) = false, want true", key)
	}

	other, _ := generateAPIKey()
	if other == key {
		t.Error("generateAPIKey() returned the same key twice")
	}
}

func TestIsAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty", input: "", want: false},
		{name: "prefix only", input: "snz_", want: false},
		{name: "wrong prefix", input: "thp_" + strings.Repeat("A", 43), want: false},
		{name: "too short", input: "snz_abc", want: false},
		{name: "well formed", input: "snz_" + strings.Repeat("A", 43), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsAPIKey(tt.input); got != tt.want {
				t.Errorf("IsAPIKey(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashSecretIsStable(t *testing.T) {
	t.Parallel()

	if HashSecret("snz_x") != HashSecret("snz_x") {
		t.Error("HashSecret() is not deterministic")
	}
	if HashSecret("snz_x") == HashSecret("snz_y") {
		t.Error("HashSecret() collides on different inputs")
	}
	if got := len(HashSecret("snz_x")); got != 64 {
		t.Errorf("len(HashSecret()) = %d, want 64", got)
	}
}

func TestCachedServiceValidateAPIKey(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cache := storage.NewMemoryBackend(1, 1, time.Hour)
	t.Cleanup(func() { _ = cache.Close() })

	inner := &fakeService{users: map[string]*ValidatedUser{
		"snz_good": {UserID: "u1", APIKeyID: 7},
	}}
	svc := NewCachedService(inner, cache, time.Minute)

	for range 3 {
		got, err := svc.ValidateAPIKey(ctx, "snz_good")
		if err != nil {
			t.Fatalf("ValidateAPIKey() unexpected error: %v", err)
		}
		if got.UserID != "u1" || got.APIKeyID != 7 {
			t.Errorf("ValidateAPIKey() = %+v, want u1/7", got)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}

	for range 2 {
		if _, err := svc.ValidateAPIKey(ctx, "snz_bad"); !errors.Is(err, ErrAPIKeyNotFound) {
			t.Fatalf("ValidateAPIKey(bad) error = %v, want ErrAPIKeyNotFound", err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("failed validations were cached: inner calls = %d, want 3", inner.calls)
	}

	if err := svc.RevokeAPIKey(ctx, 7); err != nil {
		t.Fatalf("RevokeAPIKey() unexpected error: %v", err)
	}
	if _, err := svc.ValidateAPIKey(ctx, "snz_good"); err != nil {
		t.Fatalf("ValidateAPIKey() unexpected error: %v", err)
	}
	if inner.calls != 4 {
		t.Errorf("revocation did not clear the cache: inner calls = %d, want 4", inner.calls)
	}
}
