package user

import (
	"context"
	"errors"
	"time"

	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xslog"
)

const apiKeyCachePrefix = "apikey:"

// CachedService remembers successful API-key validations so that
// authenticated requests skip postgres. Revocation takes effect once the
// cached entry expires.
type CachedService struct {
	Service
	cache storage.Cache
	ttl   time.Duration
}

var _ Service = (*CachedService)(nil)

func NewCachedService(inner Service, cache storage.Cache, ttl time.Duration) *CachedService {
	return &CachedService{Service: inner, cache: cache, ttl: ttl}
}

func (s *CachedService) ValidateAPIKey(ctx context.Context, apiKey string) (*ValidatedUser, error) {
	key := apiKeyCachePrefix + HashSecret(apiKey)

	cached, err := storage.GetJSON[ValidatedUser](ctx, s.cache, key)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		xslog.FromContext(ctx).WarnContext(ctx, "API key cache read failed", xslog.Error(err))
	}

	validated, err := s.Service.ValidateAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if err := storage.SetJSON(ctx, s.cache, key, validated, s.ttl); err != nil {
		xslog.FromContext(ctx).WarnContext(ctx, "API key cache write failed", xslog.Error(err))
	}
	return validated, nil
}

func (s *CachedService) RevokeAPIKey(ctx context.Context, apiKeyID int64) error {
	if err := s.Service.RevokeAPIKey(ctx, apiKeyID); err != nil {
		return err
	}
	// cache keys are hashes of the plaintext key, which is not known here
	return s.cache.DeletePrefix(ctx, apiKeyCachePrefix)
}
