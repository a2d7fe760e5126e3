package server

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"

	appenv "github.com/garrettladley/snooze/internal/env"
	"github.com/garrettladley/snooze/internal/sleep"
)

type Config struct {
	Port      string             `env:"PORT" envDefault:"8080"`
	Env       appenv.Environment `env:"ENV" envDefault:"development"`
	BaseURL   string             `env:"BASE_URL,required"`
	Database  Database           `envPrefix:"DATABASE_"`
	Redis     Redis              `envPrefix:"REDIS_"`
	RateLimit RateLimit          `envPrefix:"RATE_"`
	Cache     Cache              `envPrefix:"CACHE_"`
	Dashboard Dashboard          `envPrefix:"DASHBOARD_"`
}

type Database struct {
	URL string `env:"URL,required"`
	// MaxConns caps the pgx pool; zero keeps the pgx default.
	MaxConns int32 `env:"MAX_CONNS"`
}

type Redis struct {
	// URL is optional; without it rate limits and caches are kept in memory.
	URL      string        `env:"URL"`
	PoolSize int           `env:"POOL_SIZE" envDefault:"10"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"3s"`
}

type RateLimit struct {
	Limit  float64       `env:"LIMIT" envDefault:"10"`
	Burst  int           `env:"BURST" envDefault:"20"`
	Window time.Duration `env:"WINDOW" envDefault:"1s"`
}

type Cache struct {
	DashboardTTL time.Duration `env:"DASHBOARD_TTL" envDefault:"5m"`
	APIKeyTTL    time.Duration `env:"API_KEY_TTL" envDefault:"5m"`
	ShareTTL     time.Duration `env:"SHARE_TTL" envDefault:"10m"`
}

type Dashboard struct {
	TrendWindows  []int  `env:"TREND_WINDOWS" envDefault:"5,7,9" envSeparator:","`
	SummaryWindow int    `env:"SUMMARY_WINDOW" envDefault:"7"`
	Timezone      string `env:"TIMEZONE" envDefault:"UTC"`
}

// Options converts the dashboard settings into the core's defaults.
func (d Dashboard) Options() (sleep.Options, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return sleep.Options{}, err
	}
	return sleep.Options{
		TrendWindows:  d.TrendWindows,
		SummaryWindow: d.SummaryWindow,
		Location:      loc,
	}, nil
}

func ReadConfig() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "SNOOZE_"})
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings env tags cannot express. Share links handed out
// by a production server must use https.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.Env.IsProduction() && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use https in production", c.BaseURL)
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit and window must be positive")
	}
	if c.Dashboard.SummaryWindow < 1 {
		return errors.New("dashboard summary window must be at least 1")
	}
	return nil
}
