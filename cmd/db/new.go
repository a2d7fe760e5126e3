package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/migrations"
)

const (
	localMigrationsDir  = "internal/migrations/sql"
	serverMigrationsDir = "internal/migrations/postgres/sql"
)

var errEmptyName = errors.New("migration name must contain a letter or digit")

func newMigrationCmd() *cobra.Command {
	var server bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := localMigrationsDir
			if server {
				dir = serverMigrationsDir
			}

			existing, err := migrations.Files(os.DirFS(dir), ".")
			if err != nil {
				return err
			}

			name, err := nextMigrationName(existing, args[0])
			if err != nil {
				return err
			}

			path := filepath.Join(dir, name)
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			if _, err := fmt.Fprintf(f, "-- %s\n\n", args[0]); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "postgres", false, "create a server (postgres) migration")
	return cmd
}

// nextMigrationName numbers label one past the highest existing migration,
// e.g. "000003_add_share_links.sql".
func nextMigrationName(existing []string, label string) (string, error) {
	slug := slugify(label)
	if slug == "" {
		return "", errEmptyName
	}

	var last int
	for _, name := range existing {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil {
			last = max(last, n)
		}
	}
	return fmt.Sprintf("%06d_%s.sql", last+1, slug), nil
}

func slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}
