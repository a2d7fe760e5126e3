package main

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/client/snooze"
	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

func listCmd() *cobra.Command {
	var (
		limit  int
		cursor string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var before *time.Time
			if cursor != "" {
				t, err := sleep.ParseDate(cursor)
				if err != nil {
					return err
				}
				before = &t
			}

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			var (
				records []sleep.Record
				next    *time.Time
			)
			if remote {
				client, err := newClient(app.cfg)
				if err != nil {
					return err
				}
				page, err := client.Sleep.List(ctx, &snooze.ListParams{Limit: limit, Cursor: before})
				if err != nil {
					return err
				}
				records, next = page.Records, page.NextCursor
			} else {
				page, err := app.repo.Sleep.List(ctx, &repository.CursorParams{Limit: limit, Cursor: before})
				if err != nil {
					return err
				}
				records, next = page.Records, page.NextCursor
			}

			loc, err := app.cfg.Location()
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No entries")
				return nil
			}
			lipgloss.Println(renderRecords(theme.New(), records, loc))
			if next != nil {
				lipgloss.Println(theme.New().Dim().Render("more: snooze list --cursor " + next.Format(sleep.DateLayout)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", repository.DefaultPageSize, "entries per page")
	cmd.Flags().StringVar(&cursor, "cursor", "", "list entries before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&remote, "remote", false, "list the entries stored on the server")
	return cmd
}

var recordColumns = []struct {
	title string
	width int
}{
	{"date", 10},
	{"in bed", 6},
	{"out", 6},
	{"in bed", 7},
	{"asleep", 7},
	{"eff.", 6},
	{"woke", 4},
	{"guard", 5},
	{"quality", 10},
}

func renderRecords(t theme.Theme, records []sleep.Record, loc *time.Location) string {
	header := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		header[i] = t.Title().Width(c.width + 1).Render(c.title)
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for _, r := range records {
		cells := recordCells(r, loc)
		styled := make([]string, len(cells))
		for i, cell := range cells {
			style := t.Base()
			if cell == sleep.NotAvailable || cell == "" {
				style = t.Dim()
			}
			styled[i] = style.Width(recordColumns[i].width + 1).MaxWidth(recordColumns[i].width + 1).Render(cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, styled...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func recordCells(r sleep.Record, loc *time.Location) []string {
	m, err := sleep.DeriveMetrics(r, loc)
	if err != nil {
		m = sleep.Metrics{}
	}

	woke := ""
	if r.TimesWokeUpCount != nil {
		woke = strconv.Itoa(*r.TimesWokeUpCount)
	}
	guard := ""
	if r.WoreBiteGuard != nil {
		guard = "no"
		if *r.WoreBiteGuard {
			guard = "yes"
		}
	}

	return []string{
		r.Date,
		r.TimeGotIntoBed,
		r.TimeGotOutOfBed,
		sleep.FormatHoursMinutes(m.TotalTimeInBed),
		sleep.FormatHoursMinutes(m.TotalTimeAsleep),
		sleep.FormatValue(m.SleepEfficiency, sleep.UnitPercent),
		woke,
		guard,
		r.SleepQualityRating,
	}
}
