package xhttp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("empty request body")

// GetRequestIP prefers the first (client) hop of X-Forwarded-For, as set
// by the platform proxy in front of the server, over the socket address.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		client, _, _ := strings.Cut(xff, ",")
		if client = strings.TrimSpace(client); client != "" {
			return stripPort(client)
		}
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// DecodeJSON decodes a JSON request body of at most 1 MiB into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := go_json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
