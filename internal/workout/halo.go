package workout

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
)

const (
	haloPayloadParam = "r"
	kmPerMile        = 1.60934
)

var (
	ErrMissingPayload   = errors.New("halo url has no payload parameter")
	ErrMalformedPayload = errors.New("malformed halo payload")
)

type Measure struct {
	Unit  string `json:"u"`
	Value string `json:"v"`
}

// HaloPayload is the workout summary a Halo Fitness machine encodes in its
// QR code. Every numeric field arrives as a string.
type HaloPayload struct {
	ID           string   `json:"id"`
	DateTime     string   `json:"dt"`
	ExerciseTime string   `json:"et,omitempty"`
	Calories     string   `json:"c,omitempty"`
	Distance     *Measure `json:"d,omitempty"`
	AvgSpeed     *Measure `json:"as,omitempty"`
	AvgPace      *Measure `json:"ap,omitempty"`
	AvgHeartRate string   `json:"ahr,omitempty"`
	MinHeartRate string   `json:"am,omitempty"`
	// AW is either max heart rate or average watts depending on the machine.
	AW string `json:"aw,omitempty"`

	raw []byte
}

// ParseHaloURL extracts and decodes the payload of a QR code URL.
func ParseHaloURL(raw string) (HaloPayload, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return HaloPayload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	r := u.Query().Get(haloPayloadParam)
	if r == "" {
		return HaloPayload{}, ErrMissingPayload
	}
	return DecodeHaloPayload(r)
}

var base64Normalizer = strings.NewReplacer("+", "-", "/", "_", " ", "-", "=", "")

// DecodeHaloPayload decodes base64 (URL-safe or standard, padding optional) JSON.
func DecodeHaloPayload(encoded string) (HaloPayload, error) {
	data, err := base64.RawURLEncoding.DecodeString(base64Normalizer.Replace(encoded))
	if err != nil {
		return HaloPayload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var p HaloPayload
	if err := go_json.Unmarshal(data, &p); err != nil {
		return HaloPayload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if p.ID == "" || p.DateTime == "" {
		return HaloPayload{}, fmt.Errorf("%w: id and dt are required", ErrMalformedPayload)
	}
	p.raw = data
	return p, nil
}

var haloDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// FromHalo converts a payload into a workout owned by userID.
func FromHalo(p HaloPayload, userID string) (Workout, error) {
	date, err := parseHaloDate(p.DateTime)
	if err != nil {
		return Workout{}, err
	}

	w := Workout{
		ID:      p.ID,
		UserID:  userID,
		Date:    date,
		Source:  SourceHalo,
		RawData: p.raw,
	}

	if w.DurationSeconds, err = optionalInt("et", p.ExerciseTime); err != nil {
		return Workout{}, err
	}
	if w.Calories, err = optionalInt("c", p.Calories); err != nil {
		return Workout{}, err
	}
	if w.AvgHeartRate, err = optionalInt("ahr", p.AvgHeartRate); err != nil {
		return Workout{}, err
	}
	if p.Distance != nil {
		if w.DistanceKm, err = measure("d", *p.Distance, "mi"); err != nil {
			return Workout{}, err
		}
	}
	if p.AvgSpeed != nil {
		if w.AvgSpeedKmh, err = measure("as", *p.AvgSpeed, "mph"); err != nil {
			return Workout{}, err
		}
	}
	if p.AvgPace != nil {
		w.AvgPace = p.AvgPace.Value
	}

	if w.RawData == nil {
		if w.RawData, err = go_json.Marshal(p); err != nil {
			return Workout{}, fmt.Errorf("failed to marshal halo payload: %w", err)
		}
	}

	return w, nil
}

func parseHaloDate(s string) (time.Time, error) {
	for _, layout := range haloDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dt %q", ErrMalformedPayload, s)
}

func optionalInt(field, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrMalformedPayload, field, s)
	}
	return &n, nil
}

// measure parses a value, converting imperial units to metric when the unit
// contains imperialMarker.
func measure(field string, m Measure, imperialMarker string) (*float64, error) {
	if m.Value == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m.Value), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrMalformedPayload, field, m.Value)
	}
	if strings.Contains(strings.ToLower(m.Unit), imperialMarker) {
		v *= kmPerMile
	}
	return &v, nil
}
