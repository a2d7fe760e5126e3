// Package share manages public read-only links to a user's dashboard.
package share

import (
	"context"
	"errors"
	"time"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xslog"
)

const linkCachePrefix = "share:"

var ErrNotFound = errors.New("share link not found")

type Service struct {
	links   repository.ShareRepository
	cache   storage.Cache
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

func New(links repository.ShareRepository, cache storage.Cache, ttl time.Duration, baseURL string) *Service {
	return &Service{
		links:   links,
		cache:   cache,
		ttl:     ttl,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Created is a new link together with its public URL.
type Created struct {
	share.Link
	URL string `json:"url"`
}

func (s *Service) Create(ctx context.Context, userID string, expiryDays int) (Created, error) {
	link, err := share.NewLink(userID, expiryDays, s.now())
	if err != nil {
		return Created{}, err
	}
	if err := s.links.Create(ctx, &link); err != nil {
		return Created{}, err
	}
	return Created{Link: link, URL: share.URL(s.baseURL, link.Token)}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]share.Link, error) {
	return s.links.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	token, err := s.links.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, linkCachePrefix+token); err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "share cache delete failed", xslog.ShareID(id), xslog.Error(err))
		}
	}
	return nil
}

// Resolve returns the link a token grants. It returns ErrNotFound for unknown
// or malformed tokens and share.ErrExpired once the link has expired.
func (s *Service) Resolve(ctx context.Context, token string) (*share.Link, error) {
	if !share.IsValidToken(token) {
		return nil, ErrNotFound
	}

	link, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := link.Check(s.now()); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) lookup(ctx context.Context, token string) (*share.Link, error) {
	key := linkCachePrefix + token
	if s.cache != nil {
		cached, err := storage.GetJSON[share.Link](ctx, s.cache, key)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			xslog.FromContext(ctx).WarnContext(ctx, "share cache read failed", xslog.Error(err))
		}
	}

	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		ttl := min(s.ttl, time.Until(link.ExpiresAt))
		if ttl > 0 {
			if err := storage.SetJSON(ctx, s.cache, key, link, ttl); err != nil {
				xslog.FromContext(ctx).WarnContext(ctx, "share cache write failed", xslog.Error(err))
			}
		}
	}
	return link, nil
}
