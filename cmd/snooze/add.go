package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/garrettladley/snooze/internal/diary"
	"github.com/garrettladley/snooze/internal/service/record"
	"github.com/garrettladley/snooze/internal/sleep"
)

type addFlags struct {
	date                 string
	intoBed              string
	triedToSleep         string
	finalAwakening       string
	outOfBed             string
	fallAsleepMins       int
	timesWokeUp          int
	awakeMins            int
	tryingAfterFinalMins int
	quality              string
	biteGuard            bool
	comments             string
}

func addCmd() *cobra.Command {
	var f addFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace the diary entry for a night",
		Example: `  snooze add --in-bed 23:10 --tried 23:30 --fall-asleep 15 --final-awakening 06:40 --out-of-bed 07:00
  snooze add --date 2024-01-30 --bite-guard=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			loc, err := app.cfg.Location()
			if err != nil {
				return err
			}

			rec, err := f.record(cmd.Flags(), time.Now().In(loc))
			if err != nil {
				return err
			}

			if err := record.New(nil).SaveSleep(ctx, "", app.repo.Sleep, []sleep.Record{rec}); err != nil {
				return describe(err)
			}

			m, err := sleep.DeriveMetrics(rec, loc)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s: %s in bed, %s asleep\n",
				rec.Date,
				sleep.FormatHoursMinutes(m.TotalTimeInBed),
				sleep.FormatHoursMinutes(m.TotalTimeAsleep))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.date, "date", "", "night of the entry as YYYY-MM-DD (default: today)")
	flags.StringVar(&f.intoBed, "in-bed", "", "time you got into bed (HH:MM)")
	flags.StringVar(&f.triedToSleep, "tried", "", "time you tried to sleep (HH:MM)")
	flags.StringVar(&f.finalAwakening, "final-awakening", "", "time of your final awakening (HH:MM)")
	flags.StringVar(&f.outOfBed, "out-of-bed", "", "time you got out of bed (HH:MM)")
	flags.IntVar(&f.fallAsleepMins, "fall-asleep", 0, "minutes it took to fall asleep")
	flags.IntVar(&f.timesWokeUp, "woke-up", 0, "number of times you woke up")
	flags.IntVar(&f.awakeMins, "awake", 0, "total minutes awake during the night")
	flags.IntVar(&f.tryingAfterFinalMins, "trying-after", 0, "minutes spent trying to sleep after the final awakening")
	flags.StringVar(&f.quality, "quality", "", "sleep quality rating")
	flags.BoolVar(&f.biteGuard, "bite-guard", false, "whether you wore a bite guard")
	flags.StringVar(&f.comments, "comments", "", "free-form notes")
	return cmd
}

// record builds the entry from the flags that were set. Unset optional
// numbers and the bite guard stay absent rather than zero.
func (f addFlags) record(flags *pflag.FlagSet, now time.Time) (sleep.Record, error) {
	date := now.Format(sleep.DateLayout)
	if f.date != "" {
		d, err := diary.NormalizeDate(f.date, now)
		if err != nil {
			return sleep.Record{}, err
		}
		date = d
	}

	rec := sleep.Record{
		Date:               date,
		SleepQualityRating: f.quality,
		Comments:           f.comments,
	}

	clocks := []struct {
		value string
		dst   *string
	}{
		{f.intoBed, &rec.TimeGotIntoBed},
		{f.triedToSleep, &rec.TimeTriedToSleep},
		{f.finalAwakening, &rec.FinalAwakeningTime},
		{f.outOfBed, &rec.TimeGotOutOfBed},
	}
	for _, c := range clocks {
		v, err := diary.NormalizeClock(c.value)
		if err != nil {
			return sleep.Record{}, err
		}
		*c.dst = v
	}

	optional := func(name string, v int) *int {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	rec.TimeToFallAsleepMins = optional("fall-asleep", f.fallAsleepMins)
	rec.TimesWokeUpCount = optional("woke-up", f.timesWokeUp)
	rec.TotalAwakeTimeMins = optional("awake", f.awakeMins)
	rec.TimeTryingToSleepAfterFinalAwakeningMins = optional("trying-after", f.tryingAfterFinalMins)

	if flags.Changed("bite-guard") {
		guard := f.biteGuard
		rec.WoreBiteGuard = &guard
	}

	return rec, nil
}
