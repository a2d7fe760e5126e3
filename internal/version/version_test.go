package version

import (
	"strings"
	"testing"
)

func TestIsNewer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v1.2.3", "v1.2.3", false},
		{"1.2.3", "v1.2.3", false},
		{"v1.2.3", "v1.2.4", true},
		{"v1.2.3", "v1.3.0", true},
		{"v1.9.9", "v2.0.0", true},
		{"v1.10.0", "v1.9.0", false},
		{"v1.2.3", "v1.2.4-rc.1", true},
		{"v2.0.0", "v1.9.9", false},
		{"v1.2.3", "latest", false},
		{"v1.2", "v1.3.0", false},
		{"devel", "v9.0.0", false},
		{"unknown", "v9.0.0", false},
		{"", "v9.0.0", false},
		{"v1.2.3-dirty", "v9.0.0", false},
		{"v0.0.0-20260101120000-abcdef123456", "v0.1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"_vs_"+tt.latest, func(t *testing.T) {
			t.Parallel()
			if got := IsNewer(tt.current, tt.latest); got != tt.want {
				t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

func TestParseMajor(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"v1.4.0":     "1",
		"2.0.1":      "2",
		"v10.0.0":    "10",
		"v3.1.0-rc1": "3",
		"devel":      "0",
		"":           "0",
		".1.2":       "0",
	} {
		if got := ParseMajor(in); got != want {
			t.Errorf("ParseMajor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsDevelopment(t *testing.T) {
	t.Parallel()

	for v, want := range map[string]bool{
		"devel":                              true,
		"unknown":                            true,
		"":                                   true,
		"v1.0.0+dirty":                       true,
		"v0.0.0-20260101120000-abcdef123456": true,
		"v1.0.0":                             false,
		"v1.0.0-rc.1":                        false,
	} {
		if got := IsDevelopment(v); got != want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestCheckCompatibilityDevelopmentClient(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"devel", "", "v0.0.0-20260101120000-abcdef123456"} {
		if err := CheckCompatibility(v); err != nil {
			t.Errorf("CheckCompatibility(%q) = %v, want nil", v, err)
		}
	}
}

func TestIncompatibleError(t *testing.T) {
	t.Parallel()

	err := &IncompatibleError{ClientVersion: "v1.4.0", ServerVersion: "v2.1.0", MinVersion: "v2.0.0"}
	for _, want := range []string{"v1.4.0", "v2.1.0", "v2.0.0 or newer"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want it to mention %q", err.Error(), want)
		}
	}
}
