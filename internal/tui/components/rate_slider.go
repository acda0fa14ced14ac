package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// RateSlider adjusts a fractional rate such as a valuation discount rate in fixed steps.
type RateSlider struct {
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Width       int
	Focused     bool
	Description string
}

// NewRateSlider creates a slider; value is clamped into [min, max].
func NewRateSlider(label string, value, min, max, step decimal.Decimal) *RateSlider {
	s := &RateSlider{Label: label, Min: min, Max: max, Step: step, Width: 30}
	s.SetValue(value)
	return s
}

// WithDescription adds help text under the bar.
func (s *RateSlider) WithDescription(desc string) *RateSlider {
	s.Description = desc
	return s
}

// WithWidth sets the bar width in cells.
func (s *RateSlider) WithWidth(width int) *RateSlider {
	s.Width = width
	return s
}

// Increment raises the value by one step, reporting whether it moved.
func (s *RateSlider) Increment() bool {
	next := s.Value.Add(s.Step)
	if next.GreaterThan(s.Max) {
		return false
	}
	s.Value = next
	return true
}

// Decrement lowers the value by one step, reporting whether it moved.
func (s *RateSlider) Decrement() bool {
	next := s.Value.Sub(s.Step)
	if next.LessThan(s.Min) {
		return false
	}
	s.Value = next
	return true
}

// SetValue sets the value, clamping to the range.
func (s *RateSlider) SetValue(v decimal.Decimal) {
	s.Value = decimal.Min(decimal.Max(v, s.Min), s.Max)
}

// Fraction returns the position of the value within the range, in [0, 1].
func (s *RateSlider) Fraction() float64 {
	span := s.Max.Sub(s.Min)
	if !span.IsPositive() {
		return 0
	}
	return s.Value.Sub(s.Min).Div(span).InexactFloat64()
}

// Render returns the label, the value and the bar.
func (s *RateSlider) Render() string {
	label := tuistyles.ParameterLabelStyle
	value := tuistyles.ParameterValueStyle
	thumb := tuistyles.SliderThumbStyle
	if s.Focused {
		label = label.Foreground(tuistyles.ColorPrimary)
		value = value.Foreground(tuistyles.ColorAccent)
		thumb = thumb.Foreground(tuistyles.ColorAccent)
	}

	var b strings.Builder
	b.WriteString(label.Render(s.Label))
	b.WriteString("  ")
	b.WriteString(value.Render(pct(s.Value)))
	b.WriteString("\n[")

	width := max(s.Width, 2)
	pos := int(math.Round(s.Fraction() * float64(width-1)))
	if pos > 0 {
		b.WriteString(thumb.Render(strings.Repeat("━", pos)))
	}
	b.WriteString(thumb.Render("●"))
	if rest := width - pos - 1; rest > 0 {
		b.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	b.WriteString("]\n")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(pct(s.Min) + "  ─  " + pct(s.Max)))

	if s.Description != "" {
		b.WriteString("\n")
		b.WriteString(tuistyles.InfoStyle.Render(s.Description))
	}
	return b.String()
}

func pct(d decimal.Decimal) string { return d.Shift(2).StringFixed(2) + "%" }
