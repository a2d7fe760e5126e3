package workout

import (
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
)

type Source string

const (
	SourceHalo   Source = "halo"
	SourceManual Source = "manual"
)

// Workout is a single recorded session. Distances are kilometres and speeds
// kilometres per hour regardless of the unit the source reported.
type Workout struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id,omitempty"`
	Date   time.Time `json:"date"`
	Source Source    `json:"source"`

	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Calories        *int     `json:"calories,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	AvgSpeedKmh     *float64 `json:"avg_speed_kmh,omitempty"`
	AvgPace         string   `json:"avg_pace,omitempty"`
	AvgHeartRate    *int     `json:"avg_heart_rate,omitempty"`
	MaxHeartRate    *int     `json:"max_heart_rate,omitempty"`
	AvgWatts        *int     `json:"avg_watts,omitempty"`

	// RawData keeps the payload the workout was built from.
	RawData go_json.RawMessage `json:"raw_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate reports the fields a stored workout cannot do without.
func (w Workout) Validate() map[string]string {
	errs := map[string]string{}
	if w.ID == "" {
		errs["id"] = "is required"
	}
	if w.Date.IsZero() {
		errs["date"] = "is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds *int) string {
	if seconds == nil {
		return "N/A"
	}
	s := *seconds
	hours := s / 3600
	minutes := (s % 3600) / 60
	secs := s % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

type Summary struct {
	Count                int     `json:"count"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalCalories        int     `json:"total_calories"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
}

// Summarize totals workouts, counting absent fields as zero.
func Summarize(workouts []Workout) Summary {
	s := Summary{Count: len(workouts)}
	for _, w := range workouts {
		if w.DistanceKm != nil {
			s.TotalDistanceKm += *w.DistanceKm
		}
		if w.Calories != nil {
			s.TotalCalories += *w.Calories
		}
		if w.DurationSeconds != nil {
			s.TotalDurationSeconds += *w.DurationSeconds
		}
	}
	return s
}
