package tui

import (
	"time"

	"github.com/garrettladley/snooze/internal/sleep"
)

const splashDuration = 1200 * time.Millisecond

type SplashTickMsg struct{}

type DashboardMsg struct {
	Range     sleep.Range
	Dashboard sleep.Dashboard
	Err       error
}
