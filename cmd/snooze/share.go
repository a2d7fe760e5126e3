package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/client/snooze"
	"github.com/garrettladley/snooze/internal/config"
	"github.com/garrettladley/snooze/internal/share"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/components/summary"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

var errInvalidShare = errors.New("not a share link or token")

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share read-only access to your sleep dashboard",
	}
	cmd.AddCommand(shareCreateCmd(), shareListCmd(), shareDeleteCmd(), shareOpenCmd())
	return cmd
}

func shareCreateCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a share link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := remoteClient()
			if err != nil {
				return err
			}

			created, err := client.Shares.Create(cmd.Context(), days)
			if err != nil {
				return err
			}

			fmt.Println(created.URL)
			fmt.Printf("expires %s\n", created.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", share.DefaultExpiryDays, fmt.Sprintf("days until the link expires (1-%d)", share.MaxExpiryDays))
	return cmd
}

func shareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your share links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := remoteClient()
			if err != nil {
				return err
			}

			links, err := client.Shares.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(links) == 0 {
				fmt.Println("No share links")
				return nil
			}

			t := theme.New()
			now := time.Now()
			for _, l := range links {
				line := fmt.Sprintf("%s  expires %s", l.ID, l.ExpiresAt.Local().Format(time.DateTime))
				if l.Expired(now) {
					lipgloss.Println(t.Dim().Render(line + "  (expired)"))
					continue
				}
				lipgloss.Println(t.Base().Render(line))
			}
			return nil
		},
	}
}

func shareDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Revoke a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := remoteClient()
			if err != nil {
				return err
			}
			if err := client.Shares.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Revoked share %s\n", args[0])
			return nil
		},
	}
}

func shareOpenCmd() *cobra.Command {
	var rng string

	cmd := &cobra.Command{
		Use:   "open <url|token>",
		Short: "Show the dashboard behind a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := sleep.ParseRange(rng)
			if err != nil {
				return err
			}

			token, ok := share.TokenFromURL(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", errInvalidShare, args[0])
			}

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			baseURL := cfg.ServerURL
			if u, err := url.Parse(args[0]); err == nil && u.Scheme != "" && u.Host != "" {
				baseURL = u.Scheme + "://" + u.Host
			}

			public, err := snooze.New(baseURL, "").Shares.Public(cmd.Context(), token, r)
			switch {
			case snooze.IsGone(err):
				return errors.New("this share link has expired")
			case snooze.IsNotFound(err):
				return errors.New("this share link does not exist or was revoked")
			case err != nil:
				return err
			}

			t := theme.New()
			dash := public.Dashboard
			lipgloss.Println(t.Title().Render(fmt.Sprintf("Shared sleep dashboard · %d nights · range %s", dash.Records, dash.Range)))
			lipgloss.Println(t.Dim().Render("link expires " + public.ExpiresAt.Local().Format(time.DateTime)))
			lipgloss.Println(summary.Render(t, dash.Summary, statsWidth))
			return nil
		},
	}

	cmd.Flags().StringVar(&rng, "range", "all", "trailing range: all, 7d, 14d, 30d or 90d")
	return cmd
}

func remoteClient() (*snooze.Client, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return newClient(cfg)
}
