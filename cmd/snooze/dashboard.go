package main

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/service/dashboard"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui"
)

const (
	sourceLocal  = "local"
	sourceServer = "server"
)

type dashboardFlags struct {
	rng     string
	windows string
	remote  bool
}

func (f *dashboardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rng, "range", "all", "trailing range: all, 7d, 14d, 30d or 90d")
	cmd.Flags().StringVar(&f.windows, "windows", "", "comma-separated trend windows in days (default: SNOOZE_TREND_WINDOWS)")
	cmd.Flags().BoolVar(&f.remote, "remote", false, "build the dashboard on the server")
}

func dashboardCmd() *cobra.Command {
	var f dashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive sleep dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), f)
		},
	}

	f.register(cmd)
	return cmd
}

func runDashboard(ctx context.Context, f dashboardFlags) error {
	query, err := dashboard.ParseQuery(f.rng, f.windows)
	if err != nil {
		return err
	}

	app, err := openLocal(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	load, source, err := newLoader(app, f.remote, query.TrendWindows)
	if err != nil {
		return err
	}

	model := tui.New(tui.Deps{Ctx: ctx, Load: load, Source: source}, query.Range)
	if _, err := tea.NewProgram(&model).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// newLoader builds dashboards from the local diary, or fetches them from the
// server when remote is set.
func newLoader(app *local, remote bool, windows []int) (tui.Loader, string, error) {
	if remote {
		client, err := newClient(app.cfg)
		if err != nil {
			return nil, "", err
		}
		load := func(ctx context.Context, rng sleep.Range) (sleep.Dashboard, error) {
			dash, err := client.Dashboard.Get(ctx, rng, windows)
			if err != nil {
				return sleep.Dashboard{}, err
			}
			return *dash, nil
		}
		return load, sourceServer, nil
	}

	defaults, err := app.cfg.DashboardOptions(sleep.RangeAll)
	if err != nil {
		return nil, "", err
	}
	svc := dashboard.New(dashboard.Config{Defaults: defaults})

	load := func(ctx context.Context, rng sleep.Range) (sleep.Dashboard, error) {
		dash, _, err := svc.Build(ctx, "", app.repo.Sleep, dashboard.Query{Range: rng, TrendWindows: windows})
		return dash, err
	}
	return load, sourceLocal, nil
}
