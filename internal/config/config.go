package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/snooze/internal/sleep"
)

const DefaultServerURL = "http://localhost:8080"

// Config is the CLI configuration, read from SNOOZE_* environment variables.
type Config struct {
	ServerURL string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	APIKey    string `env:"API_KEY"`
	// Timezone is an IANA name; empty means the local zone.
	Timezone      string `env:"TIMEZONE"`
	TrendWindows  []int  `env:"TREND_WINDOWS" envDefault:"5,7,9" envSeparator:","`
	SummaryWindow int    `env:"SUMMARY_WINDOW" envDefault:"7"`
	DatabasePath  string `env:"DB_PATH"`
	// GitHubToken is optional and only used by the upgrade check.
	GitHubToken string `env:"GITHUB_TOKEN"`
}

func Read() (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Prefix: "SNOOZE_"})
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DashboardOptions builds dashboard options for rng from the configured windows.
func (c Config) DashboardOptions(rng sleep.Range) (sleep.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return sleep.Options{}, err
	}
	return sleep.Options{
		Range:         rng,
		TrendWindows:  c.TrendWindows,
		SummaryWindow: c.SummaryWindow,
		Today:         time.Now().In(loc),
		Location:      loc,
	}, nil
}
