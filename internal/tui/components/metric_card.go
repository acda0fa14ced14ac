package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// MetricCard displays one reserve metric with an optional change against a reference value.
type MetricCard struct {
	Label       string
	Value       string
	Delta       *decimal.Decimal
	Description string
	Width       int
	Highlight   bool
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithDelta attaches a dollar change; zero deltas render as "no change".
func (m *MetricCard) WithDelta(delta decimal.Decimal) *MetricCard {
	m.Delta = &delta
	return m
}

// WithDescription adds a subtitle line
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Highlighted draws the card border in the winning color.
func (m *MetricCard) Highlighted(on bool) *MetricCard {
	m.Highlight = on
	return m
}

func (m *MetricCard) deltaText() string {
	if m.Delta == nil {
		return ""
	}
	if m.Delta.IsZero() {
		return tuistyles.SubtitleStyle.Render("no change")
	}
	up := m.Delta.IsPositive()
	return tuistyles.MetricTrendStyle(up).Render(tuistyles.TrendIndicator(up) + " " + tuistyles.FormatCurrency(m.Delta.Abs()))
}

// Render returns the bordered card.
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if d := m.deltaText(); d != "" {
		content += "\n" + d
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	border := tuistyles.ColorBorder
	if m.Highlight {
		border = tuistyles.ColorSuccess
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns an inline "Label: value delta" form without a border.
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if d := m.deltaText(); d != "" {
		out += " " + d
	}
	return out
}

// MetricGrid lays cards out left to right, wrapping after columns cards.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns <= 0 {
		columns = len(cards)
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
