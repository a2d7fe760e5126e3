package snooze

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/garrettladley/snooze/internal/sleep"
)

type DashboardService interface {
	// Get builds the dashboard server side. A nil windows slice uses the
	// server's configured trend windows.
	Get(ctx context.Context, rng sleep.Range, windows []int) (*sleep.Dashboard, error)
}

type dashboardService struct {
	client *Client
}

func (s *dashboardService) Get(ctx context.Context, rng sleep.Range, windows []int) (*sleep.Dashboard, error) {
	var dash sleep.Dashboard
	if err := s.client.do(ctx, http.MethodGet, "/api/dashboard", dashboardQuery(rng, windows), nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

func dashboardQuery(rng sleep.Range, windows []int) url.Values {
	v := url.Values{"range": {rng.String()}}
	if len(windows) > 0 {
		parts := make([]string, len(windows))
		for i, w := range windows {
			parts[i] = strconv.Itoa(w)
		}
		v.Set("windows", strings.Join(parts, ","))
	}
	return v
}
