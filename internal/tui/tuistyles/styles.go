// Package tuistyles holds the colors and lipgloss styles shared by the TUI packages.
package tuistyles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorAccent  = lipgloss.Color("#E5C07B")
	ColorSuccess = lipgloss.Color("#98C379")
	ColorDanger  = lipgloss.Color("#E06C75")
	ColorInfo    = lipgloss.Color("#61AFEF")

	ColorForeground = lipgloss.Color("#DCDFE4")
	ColorMuted      = lipgloss.Color("#7F848E")
	ColorBorder     = lipgloss.Color("#3E4451")

	// ChartColors cycle across behavior paths.
	ChartColors = []lipgloss.Color{"#61AFEF", "#E5C07B", "#98C379", "#C678DD"}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBorder).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	ParameterLabelStyle = lipgloss.NewStyle().Bold(true)
	ParameterValueStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	SliderTrackStyle    = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle    = lipgloss.NewStyle().Foreground(ColorPrimary)

	WinningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)

	TableHighlightStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#282C34")).
				Background(ColorAccent)
)

// MetricTrendStyle colors a change up (danger: a higher reserve) or down.
func MetricTrendStyle(up bool) lipgloss.Style {
	if up {
		return MetricNegativeStyle
	}
	return MetricPositiveStyle
}

// TrendIndicator returns the arrow for a change direction.
func TrendIndicator(up bool) string {
	if up {
		return "▲"
	}
	return "▼"
}

// FormatCurrency renders a dollar amount compactly: $1.25M, $95.7K, $640.
func FormatCurrency(d decimal.Decimal) string {
	v := d.InexactFloat64()
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	}
	return fmt.Sprintf("$%.0f", v)
}
