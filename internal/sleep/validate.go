package sleep

// Validate reports malformed fields keyed by their JSON name. It returns nil
// for a record that DeriveMetrics will accept.
func (r Record) Validate() map[string]string {
	errs := map[string]string{}

	if _, err := ParseDate(r.Date); err != nil {
		errs["date"] = "must be a YYYY-MM-DD date"
	}

	clocks := map[string]string{
		"time_got_into_bed":    r.TimeGotIntoBed,
		"time_tried_to_sleep":  r.TimeTriedToSleep,
		"final_awakening_time": r.FinalAwakeningTime,
		"time_got_out_of_bed":  r.TimeGotOutOfBed,
	}
	for field, value := range clocks {
		if _, err := ParseClockTime(value); err != nil {
			errs[field] = "must be an HH:MM clock time"
		}
	}

	counts := map[string]*int{
		"time_to_fall_asleep_mins":                        r.TimeToFallAsleepMins,
		"times_woke_up_count":                             r.TimesWokeUpCount,
		"total_awake_time_mins":                           r.TotalAwakeTimeMins,
		"time_trying_to_sleep_after_final_awakening_mins": r.TimeTryingToSleepAfterFinalAwakeningMins,
	}
	for field, value := range counts {
		if value != nil && *value < 0 {
			errs[field] = "must not be negative"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Normalized returns r with its clock times rewritten by NormalizeClock, so
// absent values are stored as "" and present ones as zero-padded times.
// Malformed clock times are left for Validate to report.
func (r Record) Normalized() Record {
	for _, dst := range []*string{&r.TimeGotIntoBed, &r.TimeTriedToSleep, &r.FinalAwakeningTime, &r.TimeGotOutOfBed} {
		if v, err := NormalizeClock(*dst); err == nil {
			*dst = v
		}
	}
	return r
}
