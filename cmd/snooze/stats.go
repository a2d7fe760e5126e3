package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/service/dashboard"
	"github.com/garrettladley/snooze/internal/tui/components/summary"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

const statsWidth = 88

func statsCmd() *cobra.Command {
	var f dashboardFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the latest trend of every sleep metric",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			dash, err := load(ctx, query.Range)
			if err != nil {
				return err
			}

			t := theme.New()
			windows := make([]string, len(dash.TrendWindows))
			for i, w := range dash.TrendWindows {
				windows[i] = fmt.Sprintf("%dd", w)
			}
			lipgloss.Println(t.Title().Render(fmt.Sprintf("%d nights · range %s · %s", dash.Records, dash.Range, source)))
			lipgloss.Println(t.Dim().Render(fmt.Sprintf("trend over %s windows, summary over the last %d days",
				strings.Join(windows, "/"), dash.SummaryWindow)))
			lipgloss.Println(summary.Render(t, dash.Summary, statsWidth))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}
