package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/snooze/internal/client/snooze"
	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/service/record"
	"github.com/garrettladley/snooze/internal/xslog"
)

func pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload new and changed entries to the server",
		Long:  "Uploads diary entries and workouts that changed since the last push. Entries are marked synced only after the server accepts them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			client, err := newClient(app.cfg)
			if err != nil {
				return err
			}

			var sleepCount, workoutCount int
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				n, err := pushSleep(gctx, client, app.repo.Sync)
				sleepCount = n
				return err
			})
			g.Go(func() error {
				n, err := pushWorkouts(gctx, client, app.repo.Sync)
				workoutCount = n
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("push failed: %w", err)
			}

			fmt.Printf("Pushed %d entries and %d workouts\n", sleepCount, workoutCount)
			return nil
		},
	}
}

func pushSleep(ctx context.Context, client *snooze.Client, syncs repository.SyncRepository) (int, error) {
	records, err := syncs.UnsyncedSleep(ctx)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for batch := range slices.Chunk(records, record.MaxBatchSize) {
		started := time.Now()
		if _, err := client.Sleep.Batch(ctx, batch); err != nil {
			return pushed, err
		}
		ids := make([]string, len(batch))
		for i, r := range batch {
			ids[i] = r.ID
		}
		if err := syncs.MarkSleepSynced(ctx, ids, started); err != nil {
			return pushed, err
		}
		pushed += len(batch)
		xslog.FromContext(ctx).DebugContext(ctx, "pushed sleep records",
			xslog.Count(len(batch)),
			xslog.Date(batch[len(batch)-1].Date))
	}
	return pushed, nil
}

func pushWorkouts(ctx context.Context, client *snooze.Client, syncs repository.SyncRepository) (int, error) {
	workouts, err := syncs.UnsyncedWorkouts(ctx)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for batch := range slices.Chunk(workouts, record.MaxBatchSize) {
		started := time.Now()
		if _, err := client.Workouts.Batch(ctx, batch); err != nil {
			return pushed, err
		}
		ids := make([]string, len(batch))
		for i, w := range batch {
			ids[i] = w.ID
		}
		if err := syncs.MarkWorkoutsSynced(ctx, ids, started); err != nil {
			return pushed, err
		}
		pushed += len(batch)
		xslog.FromContext(ctx).DebugContext(ctx, "pushed workouts", xslog.Count(len(batch)))
	}
	return pushed, nil
}
