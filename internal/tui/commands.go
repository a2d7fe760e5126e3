package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/snooze/internal/sleep"
)

func loadDashboardCmd(deps Deps, rng sleep.Range) tea.Cmd {
	return func() tea.Msg {
		dash, err := deps.Load(deps.Ctx, rng)
		return DashboardMsg{Range: rng, Dashboard: dash, Err: err}
	}
}
