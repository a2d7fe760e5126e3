package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
	ColorError = lipgloss.Color("#FF5F5F")
)

var (
	ColorMoon     = lipgloss.Color("#C9B8FF") // accents, selected range
	ColorInBed    = lipgloss.Color("#7BA1BB") // time in bed
	ColorAsleep   = lipgloss.Color("#5B7CFA") // time asleep
	ColorEfficacy = lipgloss.Color("#00F19F") // sleep efficiency
	ColorAwake    = lipgloss.Color("#FFB454") // awake minutes
	ColorGuard    = lipgloss.Color("#FF7AB6") // bite guard usage
	ColorTrend    = lipgloss.Color("#FFFFFF")
)

var (
	ColorBgDark  = lipgloss.Color("#0E1020")
	ColorBgLight = lipgloss.Color("#262A45")
)
