package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/snooze/internal/version"
)

// clientTransport stamps every outgoing request with the client's version so
// the server can reject incompatible CLIs.
type clientTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*clientTransport)(nil)

func (t *clientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// a RoundTripper must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set(UserAgent, "snooze/"+version.Get())
	req.Header.Set(version.Header, version.Get())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return resp, nil
}

// NewTransport wraps base (http.DefaultTransport when nil) with the snooze
// client headers.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &clientTransport{base: base}
}
