// Package chart renders a daily series and its trend as a braille line chart.
package chart

import (
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	drawille "github.com/exrook/drawille-go"

	"github.com/garrettladley/snooze/internal/sleep"
	"github.com/garrettladley/snooze/internal/tui/theme"
)

const (
	// braille cells are 2 dots wide and 4 dots tall
	dotsPerCol = 2
	dotsPerRow = 4

	minWidth  = 10
	minHeight = 3
)

type Chart struct {
	Title string
	Unit  sleep.Unit
	Dates []string
	// Values are drawn as points and Trend as a connected line.
	Values sleep.Series
	Trend  sleep.Series

	Width  int // cells, including the y axis labels
	Height int // cells, excluding the title and x axis

	Color      color.Color
	TrendColor color.Color
}

func New(c sleep.Chart, width, height int) Chart {
	return Chart{
		Title:      c.Title,
		Unit:       c.Unit,
		Dates:      c.Dates,
		Values:     c.Values,
		Trend:      c.Trend,
		Width:      width,
		Height:     height,
		Color:      theme.MetricColor(c.Metric),
		TrendColor: theme.ColorTrend,
	}
}

func (c Chart) Render() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(c.Color).Render(c.Title)

	lo, hi, ok := bounds(c.Values, c.Trend)
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			lipgloss.NewStyle().Foreground(theme.ColorDim).Render("no data in range"))
	}

	top := sleep.FormatValue(&hi, c.Unit)
	bottom := sleep.FormatValue(&lo, c.Unit)
	axisWidth := max(lipgloss.Width(top), lipgloss.Width(bottom)) + 1

	cols := max(c.Width-axisWidth, minWidth)
	rows := max(c.Height, minHeight)
	plot := plotSize{width: cols * dotsPerCol, height: rows * dotsPerRow}

	points := drawille.NewCanvas()
	for i, v := range c.Values {
		if present(v) {
			x, y := plot.project(i, len(c.Values), *v, lo, hi)
			points.Set(x, y)
		}
	}

	line := drawille.NewCanvas()
	prevX, prevY, havePrev := 0, 0, false
	for i, v := range c.Trend {
		if !present(v) {
			havePrev = false
			continue
		}
		x, y := plot.project(i, len(c.Trend), *v, lo, hi)
		if havePrev {
			drawLine(&line, prevX, prevY, x, y)
		} else {
			line.Set(x, y)
		}
		prevX, prevY, havePrev = x, y, true
	}

	body := overlay(
		canvasRows(&line, cols, rows),
		canvasRows(&points, cols, rows),
		c.TrendColor,
		c.Color,
	)

	axisStyle := lipgloss.NewStyle().Foreground(theme.ColorDim)
	labels := make([]string, rows)
	labels[0] = top
	labels[rows-1] = bottom
	for i, label := range labels {
		pad := strings.Repeat(" ", axisWidth-1-lipgloss.Width(label))
		body[i] = pad + axisStyle.Render(label) + " " + body[i]
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(body, "\n"),
		xAxis(c.Dates, axisWidth, cols),
	)
}

type plotSize struct {
	width  int
	height int
}

// project maps the i-th of n samples with value v onto canvas dots. Higher
// values are drawn nearer the top.
func (p plotSize) project(i, n int, v, lo, hi float64) (int, int) {
	x := 0
	if n > 1 {
		x = int(math.Round(float64(i) * float64(p.width-1) / float64(n-1)))
	}
	frac := 0.5
	if hi > lo {
		frac = (v - lo) / (hi - lo)
	}
	y := int(math.Round((1 - frac) * float64(p.height-1)))
	return x, y
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

func bounds(series ...sleep.Series) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if !present(v) {
				continue
			}
			lo = min(lo, *v)
			hi = max(hi, *v)
			ok = true
		}
	}
	return lo, hi, ok
}

// drawLine sets every dot between two points using Bresenham's algorithm.
func drawLine(canvas *drawille.Canvas, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		canvas.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// canvasRows returns exactly rows lines of exactly cols braille cells.
func canvasRows(canvas *drawille.Canvas, cols, rows int) []string {
	raw := canvas.Rows(0, 0, cols*dotsPerCol, rows*dotsPerRow)
	lines := make([]string, rows)
	for i := range rows {
		var line []rune
		if i < len(raw) {
			line = []rune(raw[i])
		}
		if len(line) > cols {
			line = line[:cols]
		}
		for len(line) < cols {
			line = append(line, ' ')
		}
		lines[i] = string(line)
	}
	return lines
}

const emptyBraille rune = '⠀'

// overlay combines two braille layers cell by cell. Cells with dots from both
// layers are merged and take the top layer's color.
func overlay(bottom, top []string, bottomColor, topColor color.Color) []string {
	var (
		bottomStyle = lipgloss.NewStyle().Foreground(bottomColor)
		topStyle    = lipgloss.NewStyle().Foreground(topColor)
		out         = make([]string, len(bottom))
	)

	for i := range bottom {
		b := []rune(bottom[i])
		var t []rune
		if i < len(top) {
			t = []rune(top[i])
		}

		var sb strings.Builder
		for j, bc := range b {
			tc := ' '
			if j < len(t) {
				tc = t[j]
			}

			topDots := hasDots(tc)
			bottomDots := hasDots(bc)
			switch {
			case topDots && bottomDots:
				sb.WriteString(topStyle.Render(string(combineBraille(bc, tc))))
			case topDots:
				sb.WriteString(topStyle.Render(string(tc)))
			case bottomDots:
				sb.WriteString(bottomStyle.Render(string(bc)))
			default:
				sb.WriteRune(' ')
			}
		}
		out[i] = sb.String()
	}
	return out
}

func hasDots(r rune) bool {
	return r > emptyBraille && r <= 0x28FF
}

// combineBraille ORs the dot patterns of two braille characters.
func combineBraille(a, b rune) rune {
	return emptyBraille + ((a - emptyBraille) | (b - emptyBraille))
}

// xAxis labels the first and last dates under the plot.
func xAxis(dates []string, indent, cols int) string {
	if len(dates) == 0 {
		return ""
	}
	first, last := dates[0], dates[len(dates)-1]
	style := lipgloss.NewStyle().Foreground(theme.ColorDim)
	if len(dates) == 1 || cols < len(first)+len(last)+1 {
		return strings.Repeat(" ", indent) + style.Render(first)
	}
	gap := cols - len(first) - len(last)
	return strings.Repeat(" ", indent) + style.Render(first+strings.Repeat(" ", gap)+last)
}
