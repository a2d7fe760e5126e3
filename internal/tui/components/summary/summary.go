// Package summary renders the latest trend value of every metric as a row of cards.
package summary

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

const cardWidth = 20

func Render(t theme.Theme, summaries []sleep.Summary, width int) string {
	if len(summaries) == 0 {
		return ""
	}

	perRow := max(width/(cardWidth+2), 1)

	var (
		rows []string
		row  []string
	)
	for _, s := range summaries {
		row = append(row, card(t, s))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func card(t theme.Theme, s sleep.Summary) string {
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.MetricColor(s.Metric))
	if s.Value == nil {
		valueStyle = t.Dim()
	}

	return t.Card().Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Dim().Render(s.Title),
		valueStyle.Render(s.Formatted),
	))
}
