package footer

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/snooze/internal/tui/theme"
	"github.com/garrettladley/snooze/internal/version"
)

var (
	versionStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)
	keyStyle     = lipgloss.NewStyle().Foreground(theme.ColorMoon)
	helpStyle    = lipgloss.NewStyle().Foreground(theme.ColorDim)
)

// Binding is one key hint shown on the right of the footer.
type Binding struct {
	Key  string
	Help string
}

type Footer struct {
	bindings []Binding
	width    int
	padding  int
}

func New(bindings []Binding, width int) Footer {
	return Footer{
		bindings: bindings,
		width:    width,
		padding:  2,
	}
}

func (f Footer) Render() string {
	leftContent := versionStyle.Render(version.Get())

	hints := make([]string, len(f.bindings))
	for i, b := range f.bindings {
		hints[i] = keyStyle.Render(b.Key) + " " + helpStyle.Render(b.Help)
	}
	rightContent := strings.Join(hints, helpStyle.Render(" • "))

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(rightContent)
	spacerWidth := max(f.width-leftWidth-rightWidth-(f.padding*2), 1)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		Render(leftContent + strings.Repeat(" ", spacerWidth) + rightContent)
}
