// Package tui is the full-screen sleep dashboard.
package tui

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/components/chart"
	"github.com/garrettladley/snooze/internal/tui/components/footer"
	"github.com/garrettladley/snooze/internal/tui/components/summary"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

var _ tea.Model = (*Model)(nil)

// Loader builds the dashboard for a range, locally or from the server.
type Loader func(ctx context.Context, rng sleep.Range) (sleep.Dashboard, error)

type Deps struct {
	Ctx  context.Context
	Load Loader
	// Source names where the data comes from, shown in the header.
	Source string
}

type page uint

const (
	splashPage page = iota
	dashboardPage
)

var ranges = []sleep.Range{sleep.RangeAll, sleep.Range7d, sleep.Range14d, sleep.Range30d, sleep.Range90d}

var bindings = []footer.Binding{
	{Key: "←/→", Help: "metric"},
	{Key: "1-5", Help: "range"},
	{Key: "r", Help: "reload"},
	{Key: "q", Help: "quit"},
}

type Model struct {
	ready          bool
	page           page
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	deps           Deps

	rng       sleep.Range
	metric    int
	loading   bool
	dashboard *sleep.Dashboard
	err       error
}

func New(deps Deps, rng sleep.Range) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	return Model{
		page:  splashPage,
		theme: theme.New(),
		deps:  deps,
		rng:   rng,
	}
}

func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(
		tea.Tick(splashDuration, func(time.Time) tea.Msg {
			return SplashTickMsg{}
		}),
		loadDashboardCmd(m.deps, m.rng),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	// splash timer expired - transition to dashboard
	case SplashTickMsg:
		m.page = dashboardPage

	case DashboardMsg:
		// a response for a range the user has already moved away from
		if msg.Range != m.rng {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			dash := msg.Dashboard
			m.dashboard = &dash
		}
	}

	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	metrics := sleep.AllMetrics()

	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "right", "l", "tab":
		m.metric = (m.metric + 1) % len(metrics)
	case "left", "h", "shift+tab":
		m.metric = (m.metric + len(metrics) - 1) % len(metrics)
	case "r":
		return m.reload(m.rng)
	case "1", "2", "3", "4", "5":
		rng := ranges[key[0]-'1']
		if rng != m.rng {
			return m.reload(rng)
		}
	}
	return nil
}

func (m *Model) reload(rng sleep.Range) tea.Cmd {
	m.page = dashboardPage
	m.rng = rng
	m.loading = true
	return loadDashboardCmd(m.deps, rng)
}

// SelectedMetric is the metric whose chart is shown.
func (m *Model) SelectedMetric() sleep.Metric {
	return sleep.AllMetrics()[m.metric]
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true

	// splash uses pure black BG, everything else uses default dark
	if m.page == splashPage {
		view.BackgroundColor = theme.ColorBlack
	} else {
		view.BackgroundColor = m.theme.Background()
	}

	if !m.ready {
		return view
	}

	var content string
	switch m.page {
	case splashPage:
		content = lipgloss.Place(
			m.viewportWidth,
			m.viewportHeight,
			lipgloss.Center,
			lipgloss.Center,
			m.LogoView(),
		)
	case dashboardPage:
		content = m.DashboardView()
	}

	view.SetContent(content)
	return view
}

func (m *Model) DashboardView() string {
	header := m.headerView()
	foot := footer.New(bindings, m.viewportWidth).Render()

	var body string
	switch {
	case m.err != nil:
		body = m.theme.Error().Render("failed to load dashboard: " + m.err.Error())
	case m.dashboard == nil:
		body = m.theme.Dim().Render("loading…")
	default:
		cards := summary.Render(m.theme, m.dashboard.Summary, m.viewportWidth-4)
		chartHeight := m.viewportHeight - lipgloss.Height(header) - lipgloss.Height(cards) - lipgloss.Height(foot) - 4
		body = lipgloss.JoinVertical(lipgloss.Left, cards, "", m.chartView(chartHeight))
	}

	main := lipgloss.NewStyle().
		Padding(1, 2).
		Height(max(m.viewportHeight-lipgloss.Height(foot), 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))

	return lipgloss.JoinVertical(lipgloss.Left, main, foot)
}

func (m *Model) headerView() string {
	tabs := make([]string, len(ranges))
	for i, r := range ranges {
		label := r.String()
		if r == m.rng {
			tabs[i] = m.theme.TextAccent().Bold(true).Render("[" + label + "]")
		} else {
			tabs[i] = m.theme.Dim().Render(" " + label + " ")
		}
	}

	title := m.theme.Title().Render("snooze")
	if m.deps.Source != "" {
		title += m.theme.Dim().Render(" · " + m.deps.Source)
	}
	if m.loading {
		title += m.theme.Dim().Render(" · refreshing")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", strings.Join(tabs, " "))
}

func (m *Model) chartView(height int) string {
	c, ok := m.dashboard.ChartFor(m.SelectedMetric())
	if !ok {
		return ""
	}
	return chart.New(c, m.viewportWidth-4, max(height, 3)).Render()
}
