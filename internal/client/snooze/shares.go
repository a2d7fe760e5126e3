package snooze

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/sleep"
)

type CreatedShare struct {
	share.Link
	URL string `json:"url"`
}

type PublicDashboard struct {
	Dashboard sleep.Dashboard `json:"dashboard"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type ShareService interface {
	// Create issues a link; zero expiryDays uses the server default.
	Create(ctx context.Context, expiryDays int) (*CreatedShare, error)
	List(ctx context.Context) ([]share.Link, error)
	Delete(ctx context.Context, id string) error
	// Public fetches a shared dashboard without credentials.
	Public(ctx context.Context, token string, rng sleep.Range) (*PublicDashboard, error)
}

type shareService struct {
	client *Client
	public *http.Client
}

func (s *shareService) Create(ctx context.Context, expiryDays int) (*CreatedShare, error) {
	body := struct {
		ExpiryDays int `json:"expiry_days,omitempty"`
	}{ExpiryDays: expiryDays}

	var created CreatedShare
	if err := s.client.do(ctx, http.MethodPost, "/api/shares", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *shareService) List(ctx context.Context) ([]share.Link, error) {
	var links []share.Link
	if err := s.client.do(ctx, http.MethodGet, "/api/shares", nil, nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *shareService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/shares/"+url.PathEscape(id), nil, nil, nil)
}

func (s *shareService) Public(ctx context.Context, token string, rng sleep.Range) (*PublicDashboard, error) {
	var dash PublicDashboard
	query := url.Values{"range": {rng.String()}}
	if err := s.client.doWith(ctx, s.public, http.MethodGet, "/share/"+url.PathEscape(token), query, nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
