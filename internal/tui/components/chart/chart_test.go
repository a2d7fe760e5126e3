package chart

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	drawille "github.com/exrook/drawille-go"

	"github.com/garrettladley/snooze/internal/sleep"
)

func ptr(v float64) *float64 { return &v }

func TestProject(t *testing.T) {
	t.Parallel()

	p := plotSize{width: 20, height: 12}

	tests := []struct {
		name  string
		i, n  int
		v     float64
		wantX int
		wantY int
	}{
		{name: "first sample at minimum", i: 0, n: 5, v: 6, wantX: 0, wantY: 11},
		{name: "last sample at maximum", i: 4, n: 5, v: 9, wantX: 19, wantY: 0},
		{name: "midpoint", i: 2, n: 5, v: 7.5, wantX: 10, wantY: 6},
		{name: "single sample", i: 0, n: 1, v: 7, wantX: 0, wantY: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, y := p.project(tt.i, tt.n, tt.v, 6, 9)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("project() = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestProjectFlatSeries(t *testing.T) {
	t.Parallel()

	_, y := plotSize{width: 10, height: 9}.project(0, 3, 7, 7, 7)
	if y != 4 {
		t.Errorf("flat series y = %d, want the middle row 4", y)
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	lo, hi, ok := bounds(sleep.Series{nil, ptr(7), ptr(5)}, sleep.Series{ptr(8), nil})
	if !ok || lo != 5 || hi != 8 {
		t.Errorf("bounds() = (%v, %v, %v), want (5, 8, true)", lo, hi, ok)
	}

	if _, _, ok := bounds(sleep.Series{nil, nil}); ok {
		t.Error("bounds() of absent series reported data")
	}
}

func TestDrawLineIsContinuous(t *testing.T) {
	t.Parallel()

	canvas := drawille.NewCanvas()
	drawLine(&canvas, 0, 0, 7, 3)

	rows := canvasRows(&canvas, 4, 1)
	for i, r := range []rune(rows[0]) {
		if !hasDots(r) {
			t.Errorf("cell %d has no dots, line has a gap: %q", i, rows[0])
		}
	}
}

func TestCombineBraille(t *testing.T) {
	t.Parallel()

	// dot 1 (U+2801) and dot 8 (U+2880) combine into U+2881
	if got := combineBraille('⠁', '⢀'); got != '⢁' {
		t.Errorf("combineBraille() = %U, want U+2881", got)
	}
}

func TestRenderDimensions(t *testing.T) {
	t.Parallel()

	c := New(sleep.Chart{
		Metric: sleep.MetricTimeInBed,
		Title:  "Total Time in Bed",
		Unit:   sleep.UnitHours,
		Dates:  []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Values: sleep.Series{ptr(8), nil, ptr(6.5)},
		Trend:  sleep.Series{ptr(8), ptr(8), ptr(7.25)},
	}, 60, 8)

	out := c.Render()
	lines := strings.Split(out, "\n")
	// title, plot rows, x axis
	if len(lines) != 8+2 {
		t.Fatalf("Render() has %d lines, want 10:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "8:00") || !strings.Contains(out, "6:30") {
		t.Errorf("Render() is missing the axis labels:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-01") || !strings.Contains(out, "2024-01-03") {
		t.Errorf("Render() is missing the date labels:\n%s", out)
	}
	for _, line := range lines[1:9] {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("plot row is %d cells wide, want at most 60", w)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	out := New(sleep.Chart{Title: "Sleep Efficiency", Values: sleep.Series{nil}}, 40, 6).Render()
	if !strings.Contains(out, "no data in range") {
		t.Errorf("Render() = %q, want the empty message", out)
	}
}
