package sleep

import (
	"fmt"
	"math"
)

// NotAvailable is shown in place of an absent value.
const NotAvailable = "N/A"

// FormatHoursMinutes renders fractional hours as "H:MM", rounding to the nearest
// minute first so 6.99999 becomes "7:00" rather than "6:60".
func FormatHoursMinutes(hours *float64) string {
	if hours == nil || math.IsNaN(*hours) {
		return NotAvailable
	}
	total := int(math.Round(*hours * 60))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatValue renders a metric value in the unit it is charted in.
func FormatValue(v *float64, unit Unit) string {
	if v == nil || math.IsNaN(*v) {
		return NotAvailable
	}
	switch unit {
	case UnitHours:
		return FormatHoursMinutes(v)
	case UnitPercent:
		return fmt.Sprintf("%.1f%%", *v)
	case UnitMinutes:
		return fmt.Sprintf("%d min", int(math.Round(*v)))
	default:
		return fmt.Sprintf("%g", *v)
	}
}
