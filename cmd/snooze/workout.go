package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/service/record"
	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/theme"
	"github.com/garrettladley/snooze/internal/validator"
	"github.com/garrettladley/snooze/internal/workout"
)

func workoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Record and list workouts",
	}
	cmd.AddCommand(workoutAddCmd(), workoutHaloCmd(), workoutListCmd(), workoutDeleteCmd())
	return cmd
}

func workoutAddCmd() *cobra.Command {
	var (
		m        workout.Manual
		duration int
		calories int
		distance float64
		avgHR    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			if flags.Changed("duration") {
				m.DurationMinutes = &duration
			}
			if flags.Changed("calories") {
				m.Calories = &calories
			}
			if flags.Changed("distance") {
				m.DistanceKm = &distance
			}
			if flags.Changed("avg-hr") {
				m.AvgHeartRate = &avgHR
			}
			if m.Date == "" {
				m.Date = time.Now().Format(sleep.DateLayout)
			}
			if verr := validator.Validate(m); verr != nil {
				return describe(verr)
			}

			w, err := workout.NewManual(m, "", time.Now())
			if err != nil {
				return err
			}
			return saveWorkout(cmd, w)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&m.Date, "date", "", "date of the workout as YYYY-MM-DD or RFC 3339 (default: today)")
	flags.IntVar(&duration, "duration", 0, "duration in minutes")
	flags.IntVar(&calories, "calories", 0, "calories burned")
	flags.Float64Var(&distance, "distance", 0, "distance in kilometres")
	flags.IntVar(&avgHR, "avg-hr", 0, "average heart rate")
	flags.StringVar(&m.AvgPace, "pace", "", "average pace, e.g. 5:30/km")
	return cmd
}

func workoutHaloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "halo <qr-url>",
		Short: "Import a workout from a Halo QR code URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := workout.ParseHaloURL(args[0])
			if err != nil {
				return err
			}
			w, err := workout.FromHalo(payload, "")
			if err != nil {
				return err
			}
			return saveWorkout(cmd, w)
		},
	}
}

func saveWorkout(cmd *cobra.Command, w workout.Workout) error {
	ctx := cmd.Context()

	app, err := openLocal(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	if err := record.New(nil).SaveWorkouts(ctx, app.repo.Workouts, []workout.Workout{w}); err != nil {
		return describe(err)
	}
	fmt.Printf("Saved %s workout %s on %s (%s)\n",
		w.Source, w.ID, w.Date.Format(sleep.DateLayout), workout.FormatDuration(w.DurationSeconds))
	return nil
}

func workoutListCmd() *cobra.Command {
	var (
		rng   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workouts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			r, err := sleep.ParseRange(rng)
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

			page, err := record.New(nil).Workouts(ctx, app.repo.Workouts, r, time.Now(), &repository.CursorParams{Limit: limit})
			if err != nil {
				return err
			}
			if len(page.Records) == 0 {
				fmt.Println("No workouts")
				return nil
			}

			t := theme.New()
			for _, w := range page.Records {
				lipgloss.Println(t.Base().Render(workoutLine(w)))
			}

			total := workout.Summarize(page.Records)
			secs := total.TotalDurationSeconds
			lipgloss.Println(t.Dim().Render(fmt.Sprintf("%d workouts · %.2f km · %d kcal · %s",
				total.Count, total.TotalDistanceKm, total.TotalCalories, workout.FormatDuration(&secs))))
			return nil
		},
	}

	cmd.Flags().StringVar(&rng, "range", "all", "trailing range: all, 7d, 14d, 30d or 90d")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultPageSize, "maximum number of workouts")
	return cmd
}

func workoutLine(w workout.Workout) string {
	parts := []string{
		w.Date.Format(sleep.DateLayout),
		fmt.Sprintf("%-6s", w.Source),
		workout.FormatDuration(w.DurationSeconds),
	}
	if w.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("%.2f km", *w.DistanceKm))
	}
	if w.Calories != nil {
		parts = append(parts, fmt.Sprintf("%d kcal", *w.Calories))
	}
	if w.AvgHeartRate != nil {
		parts = append(parts, fmt.Sprintf("%d bpm", *w.AvgHeartRate))
	}
	return strings.Join(parts, "  ") + "  " + w.ID
}

func workoutDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			if err := app.repo.Workouts.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted workout %s\n", args[0])
			return nil
		},
	}
}
