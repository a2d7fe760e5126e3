package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/version"
	"github.com/garrettladley/snooze/internal/xslog"
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stderr, xslog.Config{Level: xslog.LevelWarn, Format: xslog.FormatText})
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:     "snooze",
		Short:   "Your sleep diary in the terminal",
		Long:    "Records sleep diary entries and workouts locally, charts their trends and syncs them to a snooze server.",
		Version: version.Get(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), dashboardFlags{rng: "all"})
		},
	}

	rootCmd.AddCommand(
		importCmd(),
		addCmd(),
		listCmd(),
		statsCmd(),
		dashboardCmd(),
		deleteCmd(),
		workoutCmd(),
		pushCmd(),
		shareCmd(),
		upgradeCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
