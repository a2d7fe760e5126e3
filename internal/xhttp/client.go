package xhttp

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

// NewHTTPClient returns a client that identifies itself as snooze and times
// out after DefaultTimeout unless overridden.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport(nil), Timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
