// Package snooze is the HTTP client for the snooze server API.
package snooze

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/garrettladley/snooze/internal/xhttp"
)

type Client struct {
	Sleep     SleepService
	Workouts  WorkoutService
	Shares    ShareService
	Dashboard DashboardService

	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client for the server at baseURL. The API key is sent as a
// bearer token on every request except the public share endpoints.
func New(baseURL, apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{
		timeout: xhttp.DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	base := xhttp.NewTransport(cfg.base)
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
		Base:   base,
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
	}

	c.Sleep = &sleepService{client: c}
	c.Workouts = &workoutService{client: c}
	c.Shares = &shareService{client: c, public: &http.Client{Transport: base, Timeout: cfg.timeout}}
	c.Dashboard = &dashboardService{client: c}

	return c
}

type clientConfig struct {
	base    http.RoundTripper
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*clientConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// WithTransport replaces the base transport the bearer token is added on top of.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) { cfg.base = rt }
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, result any) error {
	return c.doWith(ctx, c.httpClient, method, path, query, body, result)
}

func (c *Client) doWith(ctx context.Context, httpClient *http.Client, method string, path string, query url.Values, body any, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := go_json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(xhttp.Accept, "application/json")
	if body != nil {
		req.Header.Set(xhttp.ContentType, "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := go_json.NewDecoder(bytes.NewReader(raw)).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w\nbody: %s", err, string(raw))
		}
	}

	return nil
}
