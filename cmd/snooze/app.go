package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/garrettladley/snooze/internal/client/snooze"
	"github.com/garrettladley/snooze/internal/config"
	"github.com/garrettladley/snooze/internal/db"
	"github.com/garrettladley/snooze/internal/paths"
	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/xerrors"
)

var errNoAPIKey = errors.New("no API key configured; set SNOOZE_API_KEY")

// local is the opened diary together with the configuration it was opened with.
type local struct {
	cfg  config.Config
	db   *sql.DB
	repo *repository.Local
}

func (l *local) Close() error {
	return l.db.Close()
}

func openLocal(ctx context.Context) (*local, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		if dbPath, err = paths.DB(); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &local{cfg: cfg, db: sqlDB, repo: repository.NewSQLite(sqlDB)}, nil
}

func newClient(cfg config.Config) (*snooze.Client, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}
	return snooze.New(cfg.ServerURL, cfg.APIKey), nil
}

// describe expands validation failures into one line per field.
func describe(err error) error {
	xerr := xerrors.As(err)
	if xerr == nil || xerr.Fields() == nil {
		return err
	}
	fields := xerr.Fields()

	var b strings.Builder
	b.WriteString("invalid entry:")
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return errors.New(b.String())
}
