package github

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckForUpdate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/garrettladley/snooze/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://github.com/garrettladley/snooze/releases/tag/v1.4.0"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	tests := []struct {
		name    string
		current string
		want    bool
	}{
		{name: "older", current: "v1.3.2", want: true},
		{name: "same", current: "v1.4.0", want: false},
		{name: "newer", current: "v2.0.0", want: false},
		{name: "development build", current: "devel", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.CheckForUpdate(t.Context(), tt.current)
			if err != nil {
				t.Fatalf("CheckForUpdate() unexpected error: %v", err)
			}
			if got.Available != tt.want {
				t.Errorf("Available = %v, want %v", got.Available, tt.want)
			}
			if got.Latest.TagName != "v1.4.0" {
				t.Errorf("Latest = %+v", got.Latest)
			}
		})
	}
}

func TestLatestReleaseUnexpectedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	if _, err := NewClient(WithBaseURL(srv.URL)).LatestRelease(t.Context()); err == nil {
		t.Fatal("LatestRelease() expected error for 403")
	}
}

func TestLatestReleaseNoRelease(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).LatestRelease(t.Context())
	if !errors.Is(err, ErrNoRelease) {
		t.Errorf("LatestRelease() error = %v, want ErrNoRelease", err)
	}
}

func TestWithTokenSendsBearer(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"tag_name":"v1.0.0"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithToken("ghp_test"))
	if _, err := c.LatestRelease(t.Context()); err != nil {
		t.Fatalf("LatestRelease() unexpected error: %v", err)
	}
	if got != "Bearer ghp_test" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer ghp_test")
	}
}
