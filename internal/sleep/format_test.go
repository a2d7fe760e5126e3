package sleep

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormatHoursMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours *float64
		want  string
	}{
		{name: "exact hours", hours: ptr(7.0), want: "7:00"},
		{name: "zero", hours: ptr(0.0), want: "0:00"},
		{name: "half hour", hours: ptr(6.5), want: "6:30"},
		{name: "quarter past", hours: ptr(7.25), want: "7:15"},
		{name: "quarter to", hours: ptr(8.75), want: "8:45"},
		{name: "carries instead of 6:60", hours: ptr(6.999), want: "7:00"},
		{name: "carries with more nines", hours: ptr(6.99999), want: "7:00"},
		{name: "pads single digit minutes", hours: ptr(7.1), want: "7:06"},
		{name: "rounds up to two minutes", hours: ptr(5.033), want: "5:02"},
		{name: "rounds up just past the hour", hours: ptr(7.016), want: "7:01"},
		{name: "rounds just below the hour", hours: ptr(7.983), want: "7:59"},
		{name: "nil", hours: nil, want: "N/A"},
		{name: "NaN", hours: ptr(math.NaN()), want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatHoursMinutes(tt.hours); got != tt.want {
				t.Errorf("FormatHoursMinutes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatHoursMinutesRoundTrip(t *testing.T) {
	t.Parallel()

	for _, hours := range []float64{0.5, 1.2345, 6.5, 6.99999, 7.333333, 9.9, 11.016} {
		formatted := FormatHoursMinutes(&hours)

		h, m, ok := strings.Cut(formatted, ":")
		if !ok {
			t.Fatalf("FormatHoursMinutes(%v) = %q, missing separator", hours, formatted)
		}
		hh, _ := strconv.Atoi(h)
		mm, _ := strconv.Atoi(m)
		if mm >= 60 {
			t.Errorf("FormatHoursMinutes(%v) = %q, minutes overflow", hours, formatted)
		}

		back := float64(hh) + float64(mm)/60
		if math.Abs(back-hours) > 0.5/60+1e-9 {
			t.Errorf("FormatHoursMinutes(%v) = %q, reconstructs to %v", hours, formatted, back)
		}
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value *float64
		unit  Unit
		want  string
	}{
		{name: "hours", value: ptr(7.5), unit: UnitHours, want: "7:30"},
		{name: "percent", value: ptr(87.345), unit: UnitPercent, want: "87.3%"},
		{name: "minutes", value: ptr(12.6), unit: UnitMinutes, want: "13 min"},
		{name: "absent", value: nil, unit: UnitMinutes, want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatValue(tt.value, tt.unit); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
