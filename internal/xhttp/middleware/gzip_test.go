package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garrettladley/snooze/internal/xhttp"
)

func serveGzip(t *testing.T, method, path, acceptEncoding string, handler http.HandlerFunc) *http.Response {
	t.Helper()

	req := httptest.NewRequestWithContext(t.Context(), method, path, nil)
	if acceptEncoding != "" {
		req.Header.Set(xhttp.AcceptEncoding, acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Gzip(handler).ServeHTTP(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if resp.Header.Get(xhttp.ContentEncoding) != gzipEncoding {
		return string(raw)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to open gzip body: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to decompress body: %v", err)
	}
	return string(plain)
}

func TestGzip(t *testing.T) {
	t.Parallel()

	large := strings.Repeat(`{"date":"2024-01-30"}`, 100)

	tests := []struct {
		name         string
		method       string
		path         string
		accept       string
		contentType  string
		encoding     string
		status       int
		body         string
		wantEncoding string
		wantVary     bool
	}{
		{name: "large json compressed", path: "/api/dashboard", accept: "gzip", contentType: "application/json", body: large, wantEncoding: "gzip", wantVary: true},
		{name: "no content type compressed", path: "/api/dashboard", accept: "gzip, br", body: large, wantEncoding: "gzip", wantVary: true},
		{name: "exactly the threshold compressed", path: "/api/sleep", accept: "gzip", body: strings.Repeat("z", gzipMinSize), wantEncoding: "gzip", wantVary: true},
		{name: "small body sent plain", path: "/api/sleep", accept: "gzip", body: `{"ok":true}`, wantVary: true},
		{name: "image sent plain", path: "/share/abc", accept: "gzip", contentType: "image/png", body: large, wantVary: true},
		{name: "already encoded", path: "/api/dashboard", accept: "gzip", encoding: "br", body: large, wantEncoding: "br", wantVary: true},
		{name: "client refuses gzip", path: "/api/dashboard", accept: "gzip;q=0, br", body: large},
		{name: "no accept header", path: "/api/dashboard", body: large},
		{name: "health probe skipped", path: "/health", accept: "gzip", body: large},
		{name: "error status still compressed", path: "/api/sleep", accept: "gzip", status: http.StatusUnprocessableEntity, body: large, wantEncoding: "gzip", wantVary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			resp := serveGzip(t, method, tt.path, tt.accept, func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set(xhttp.ContentType, tt.contentType)
				}
				if tt.encoding != "" {
					w.Header().Set(xhttp.ContentEncoding, tt.encoding)
				}
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = io.WriteString(w, tt.body)
			})

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if resp.StatusCode != wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, wantStatus)
			}
			if got := resp.Header.Get(xhttp.ContentEncoding); got != tt.wantEncoding {
				t.Errorf("Content-Encoding = %q, want %q", got, tt.wantEncoding)
			}
			if got := resp.Header.Get(xhttp.Vary) == xhttp.AcceptEncoding; got != tt.wantVary {
				t.Errorf("Vary set = %v, want %v", got, tt.wantVary)
			}
			if tt.encoding == "" {
				if got := readBody(t, resp); got != tt.body {
					t.Errorf("body length = %d, want %d", len(got), len(tt.body))
				}
			}
		})
	}
}

func TestGzipFlushCommitsPendingBody(t *testing.T) {
	t.Parallel()

	resp := serveGzip(t, http.MethodGet, "/api/dashboard", "gzip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "first ")
		w.(http.Flusher).Flush()
		_, _ = io.WriteString(w, strings.Repeat("x", 2*gzipMinSize))
	})

	if got := resp.Header.Get(xhttp.ContentEncoding); got != "" {
		t.Errorf("Content-Encoding = %q, want plain once a short body was flushed", got)
	}
	if got, want := readBody(t, resp), "first "+strings.Repeat("x", 2*gzipMinSize); got != want {
		t.Errorf("body length = %d, want %d", len(got), len(want))
	}
}

func TestGzipEmptyBody(t *testing.T) {
	t.Parallel()

	resp := serveGzip(t, http.MethodDelete, "/api/sleep/2024-01-30", "gzip", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get(xhttp.ContentEncoding); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
}

func TestAcceptsGzip(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"":                   false,
		"gzip":               true,
		"GZIP":               true,
		"br, gzip;q=0.8":     true,
		"gzip; q=0":          false,
		"deflate, br":        false,
		"x-gzip":             false,
		"identity, gzip;q=1": true,
		"gzip;q=0.000, br":   false,
	}
	for header, want := range tests {
		if got := acceptsGzip(header); got != want {
			t.Errorf("acceptsGzip(%q) = %v, want %v", header, got, want)
		}
	}
}
