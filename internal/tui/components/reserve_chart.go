package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// Series is one plotted line, indexed by policy year starting at 1.
type Series struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ReserveChart plots reserve-style series against policy year.
type ReserveChart struct {
	Title  string
	Series []Series
	Width  int
	Height int
}

// NewReserveChart creates an empty chart with the default size.
func NewReserveChart(title string) *ReserveChart {
	return &ReserveChart{Title: title, Width: 60, Height: 12}
}

// WithSize sets the chart dimensions, including the y-axis gutter.
func (c *ReserveChart) WithSize(width, height int) *ReserveChart {
	c.Width = width
	c.Height = height
	return c
}

// AddSeries appends a line.
func (c *ReserveChart) AddSeries(name string, points []float64, color lipgloss.Color) *ReserveChart {
	c.Series = append(c.Series, Series{Name: name, Points: points, Color: color})
	return c
}

// PathChart plots the BOY reserve and the maximum benefit of one behavior path.
func PathChart(p domain.PathResult) *ReserveChart {
	reserve := make([]float64, len(p.Reserve.Rows))
	maxBenefit := make([]float64, len(p.Reserve.Rows))
	for i, r := range p.Reserve.Rows {
		reserve[i] = r.Reserve.InexactFloat64()
		maxBenefit[i] = r.MaximumBenefit.InexactFloat64()
	}
	return NewReserveChart(p.Name+": reserve vs maximum benefit").
		AddSeries("Reserve BOY", reserve, tuistyles.ChartColors[0]).
		AddSeries("Maximum benefit", maxBenefit, tuistyles.ChartColors[1])
}

const yAxisWidth = 9

// Render returns the chart, or a placeholder when no series has points.
func (c *ReserveChart) Render() string {
	lo, hi, n := c.bounds()
	if n == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(tuistyles.TitleStyle.Render(c.Title))
		out.WriteString("\n")
	}

	plotWidth := max(c.Width-yAxisWidth-3, 2)
	height := max(c.Height, 2)
	grid := make([][]rune, height)
	owner := make([][]int, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
		owner[i] = make([]int, plotWidth)
	}

	for si, s := range c.Series {
		mark := seriesMark(si)
		prevX, prevY := -1, -1
		for i, v := range s.Points {
			x := scale(float64(i), 0, float64(max(n-1, 1)), plotWidth)
			y := height - 1 - scale(v, lo, hi, height)
			if prevX >= 0 {
				drawLine(grid, owner, prevX, prevY, x, y, mark, si)
			}
			grid[y][x] = mark
			owner[y][x] = si
			prevX, prevY = x, y
		}
	}

	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for row := range grid {
		v := hi - (hi-lo)*float64(row)/float64(height-1)
		out.WriteString(axis.Render(chartValue(v)))
		out.WriteString(" │ ")
		for col, r := range grid[row] {
			if r == ' ' {
				out.WriteRune(r)
				continue
			}
			out.WriteString(lipgloss.NewStyle().Foreground(c.Series[owner[row][col]].Color).Render(string(r)))
		}
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth) + " └" + strings.Repeat("─", plotWidth) + "\n")
	out.WriteString(strings.Repeat(" ", yAxisWidth+3))
	first, last := "yr 1", fmt.Sprintf("yr %d", n)
	out.WriteString(first + strings.Repeat(" ", max(plotWidth-len(first)-len(last), 1)) + last + "\n")
	out.WriteString(c.legend())
	return out.String()
}

// bounds returns the padded value range and the longest series length.
func (c *ReserveChart) bounds() (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		n = max(n, len(s.Points))
		for _, v := range s.Points {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	return lo - pad, hi + pad, n
}

// scale maps v in [lo, hi] onto [0, cells-1].
func scale(v, lo, hi float64, cells int) int {
	if hi <= lo {
		return 0
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	return min(max(i, 0), cells-1)
}

func seriesMark(i int) rune {
	marks := []rune{'●', '■', '▲', '♦'}
	return marks[i%len(marks)]
}

// drawLine joins two points with Bresenham's algorithm without overwriting marks.
func drawLine(grid [][]rune, owner [][]int, x0, y0, x1, y1 int, mark rune, series int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if grid[y0][x0] == ' ' {
			grid[y0][x0] = '·'
			owner[y0][x0] = series
		}
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

func (c *ReserveChart) legend() string {
	items := make([]string, len(c.Series))
	for i, s := range c.Series {
		items[i] = lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesMark(i))) + " " + s.Name
	}
	return tuistyles.SubtitleStyle.Render("Legend: ") + strings.Join(items, "  ")
}

// chartValue formats a y-axis value.
func chartValue(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case math.Abs(v) >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	}
	return fmt.Sprintf("$%.0f", v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
