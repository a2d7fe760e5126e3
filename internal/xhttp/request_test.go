package xhttp

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestGetRequestIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "socket address", remoteAddr: "192.0.2.1:52344", want: "192.0.2.1"},
		{name: "socket address without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6 socket address", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded client", forwarded: "203.0.113.7", remoteAddr: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "forwarded client with port", forwarded: "203.0.113.7:41000", remoteAddr: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "first hop of a chain", forwarded: "203.0.113.7, 198.51.100.4, 10.0.0.9", remoteAddr: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "blank first hop falls back", forwarded: " , 198.51.100.4", remoteAddr: "10.0.0.2:80", want: "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, tt.forwarded, tt.remoteAddr)
			if got := GetRequestIP(req); got != tt.want {
				t.Errorf("GetRequestIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func buildRequest(t *testing.T, forwarded, remoteAddr string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://example.com/api/sleep", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if forwarded != "" {
		req.Header.Set(XForwardedFor, forwarded)
	}
	req.RemoteAddr = remoteAddr
	return req
}

func TestGetRequestHeaderAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer snz_abc", want: "snz_abc"},
		{name: "lowercase scheme", header: "bearer snz_abc", want: "snz_abc"},
		{name: "missing", header: "", want: ""},
		{name: "scheme only", header: "Bearer ", want: ""},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, "", "192.0.2.1:1234")
			if tt.header != "" {
				req.Header.Set(Authorization, tt.header)
			}
			if got := GetRequestHeaderAPIKey(req); got != tt.want {
				t.Errorf("GetRequestHeaderAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst struct {
		Date string `json:"date"`
	}

	req, _ := http.NewRequestWithContext(t.Context(), http.MethodPost, "http://example.com", strings.NewReader(`{"date":"2024-01-30"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("DecodeJSON() unexpected error: %v", err)
	}
	if dst.Date != "2024-01-30" {
		t.Errorf("Date = %q, want %q", dst.Date, "2024-01-30")
	}

	req, _ = http.NewRequestWithContext(t.Context(), http.MethodPost, "http://example.com", strings.NewReader(``))
	if err := DecodeJSON(req, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("DecodeJSON(empty) error = %v, want ErrEmptyBody", err)
	}

	req, _ = http.NewRequestWithContext(t.Context(), http.MethodPost, "http://example.com", strings.NewReader(`{"unknown":1}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("DecodeJSON(unknown field) expected error")
	}

	oversized := `{"date":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req, _ = http.NewRequestWithContext(t.Context(), http.MethodPost, "http://example.com", strings.NewReader(oversized))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("DecodeJSON(oversized) expected error")
	}
}
