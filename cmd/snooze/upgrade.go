package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/client/github"
	"github.com/garrettladley/snooze/internal/config"
	"github.com/garrettladley/snooze/internal/version"
)

func upgradeCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Check for updates and install if available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			update, err := github.NewClient(github.WithToken(cfg.GitHubToken)).CheckForUpdate(ctx, version.Get())
			if errors.Is(err, github.ErrNoRelease) {
				fmt.Println("no snooze release has been published yet")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}

			if !update.Available {
				fmt.Printf("snooze is up to date (%s)\n", update.Current)
				return nil
			}

			if check {
				fmt.Printf("snooze %s is available (running %s)\n", update.Latest.TagName, update.Current)
				return nil
			}

			fmt.Printf("Updating snooze %s → %s (released %s)\n", update.Current, update.Latest.TagName, update.Latest.PublishedAt.Format(time.DateOnly))
			return goInstallUpgrade(ctx)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "only report whether an update is available")
	return cmd
}

func goInstallUpgrade(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "go", "install", "github.com/garrettladley/snooze/cmd/snooze@latest")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upgrade failed: %w", err)
	}
	fmt.Println("Successfully updated!")
	return nil
}
