package workout

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const manualIDPrefix = "manual-"

// Manual holds the fields a user can enter by hand.
type Manual struct {
	Date            string   `json:"date"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Calories        *int     `json:"calories,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	AvgSpeedKmh     *float64 `json:"avg_speed_kmh,omitempty"`
	AvgPace         string   `json:"avg_pace,omitempty"`
	AvgHeartRate    *int     `json:"avg_heart_rate,omitempty"`
	MaxHeartRate    *int     `json:"max_heart_rate,omitempty"`
	AvgWatts        *int     `json:"avg_watts,omitempty"`
}

func (m Manual) Validate() map[string]string {
	errs := map[string]string{}
	if _, err := parseManualDate(m.Date); err != nil {
		errs["date"] = "must be YYYY-MM-DD or RFC 3339"
	}
	nonNegativeInt := func(field string, v *int) {
		if v != nil && *v < 0 {
			errs[field] = "must not be negative"
		}
	}
	nonNegativeFloat := func(field string, v *float64) {
		if v != nil && *v < 0 {
			errs[field] = "must not be negative"
		}
	}
	nonNegativeInt("duration_minutes", m.DurationMinutes)
	nonNegativeInt("calories", m.Calories)
	nonNegativeInt("avg_heart_rate", m.AvgHeartRate)
	nonNegativeInt("max_heart_rate", m.MaxHeartRate)
	nonNegativeInt("avg_watts", m.AvgWatts)
	nonNegativeFloat("distance_km", m.DistanceKm)
	nonNegativeFloat("avg_speed_kmh", m.AvgSpeedKmh)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NewManual builds a workout from hand-entered fields with an ID of the form
// manual-<unix millis>-<random>.
func NewManual(m Manual, userID string, now time.Time) (Workout, error) {
	date, err := parseManualDate(m.Date)
	if err != nil {
		return Workout{}, err
	}

	raw, err := go_json.Marshal(struct {
		IsManual bool `json:"manual"`
		Manual
	}{IsManual: true, Manual: m})
	if err != nil {
		return Workout{}, fmt.Errorf("failed to marshal manual workout: %w", err)
	}

	w := Workout{
		ID:           newManualID(now),
		UserID:       userID,
		Date:         date,
		Source:       SourceManual,
		Calories:     m.Calories,
		DistanceKm:   m.DistanceKm,
		AvgSpeedKmh:  m.AvgSpeedKmh,
		AvgPace:      m.AvgPace,
		AvgHeartRate: m.AvgHeartRate,
		MaxHeartRate: m.MaxHeartRate,
		AvgWatts:     m.AvgWatts,
		RawData:      raw,
	}
	if m.DurationMinutes != nil {
		secs := *m.DurationMinutes * 60
		w.DurationSeconds = &secs
	}
	return w, nil
}

func IsManualID(id string) bool {
	return strings.HasPrefix(id, manualIDPrefix)
}

func newManualID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return manualIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

func parseManualDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid workout date %q: %w", s, err)
	}
	return t, nil
}
