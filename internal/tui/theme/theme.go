package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/snooze/internal/sleep"
)

type Theme struct {
	background color.Color
	foreground color.Color
	base       lipgloss.Style
}

func New() Theme {
	var t Theme

	t.background = ColorBgDark
	t.foreground = ColorWhite
	t.base = lipgloss.NewStyle().Foreground(t.foreground)

	return t
}

func (t Theme) Base() lipgloss.Style {
	return t.base
}

func (t Theme) TextAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMoon)
}

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.foreground).Bold(true)
}

func (t Theme) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorDim)
}

func (t Theme) Error() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

func (t Theme) Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBgLight).
		Padding(0, 1)
}

func (t Theme) Background() color.Color {
	return t.background
}

func (t Theme) Foreground() color.Color {
	return t.foreground
}

// MetricColor is the series color of a dashboard metric.
func MetricColor(m sleep.Metric) color.Color {
	switch m {
	case sleep.MetricTimeInBed:
		return ColorInBed
	case sleep.MetricTimeAsleep:
		return ColorAsleep
	case sleep.MetricEfficiency:
		return ColorEfficacy
	case sleep.MetricFallAsleep, sleep.MetricTryingToSleep, sleep.MetricTimeAwakeInNight:
		return ColorAwake
	case sleep.MetricBiteGuard:
		return ColorGuard
	default:
		return ColorMoon
	}
}
