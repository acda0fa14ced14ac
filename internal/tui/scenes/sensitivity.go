package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/components"
	"github.com/rgehrsitz/myga/internal/tui/tuimsg"
	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// SensitivityKeys are the bindings of the discount-rate scene.
var SensitivityKeys = struct {
	Up, Down, Apply key.Binding
}{
	Up:    key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→", "raise rate")),
	Down:  key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←", "lower rate")),
	Apply: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "revalue")),
}

var (
	minDiscount  = decimal.RequireFromString("0.01")
	maxDiscount  = decimal.RequireFromString("0.08")
	discountStep = decimal.RequireFromString("0.0025")
)

// Valuation is one reserve computed during the session.
type Valuation struct {
	DiscountRate decimal.Decimal
	Reserve      decimal.Decimal
	WinningPath  string
}

// SensitivityModel revalues the run at other CARVM discount rates and keeps every result.
type SensitivityModel struct {
	slider  *components.RateSlider
	history []Valuation
	pending bool
	width   int
	height  int
}

// NewSensitivityModel creates the scene with the slider at rate.
func NewSensitivityModel(rate decimal.Decimal) *SensitivityModel {
	slider := components.NewRateSlider("CARVM discount rate", rate, minDiscount, maxDiscount, discountStep).
		WithWidth(40).
		WithDescription("Annuity benefits keep their own discount rate")
	slider.Focused = true
	return &SensitivityModel{slider: slider}
}

// Rate returns the slider's current rate.
func (m *SensitivityModel) Rate() decimal.Decimal { return m.slider.Value }

// SetPending marks a valuation as running.
func (m *SensitivityModel) SetPending(on bool) { m.pending = on }

// Record stores a finished valuation, replacing any earlier one at the same rate.
func (m *SensitivityModel) Record(result *domain.CARVMResult) {
	m.pending = false
	if result == nil {
		return
	}
	v := Valuation{DiscountRate: result.Settings.DiscountRate, Reserve: result.Reserve, WinningPath: result.WinningPath}
	for i := range m.history {
		if m.history[i].DiscountRate.Equal(v.DiscountRate) {
			m.history[i] = v
			return
		}
	}
	m.history = append(m.history, v)
	sort.Slice(m.history, func(i, j int) bool {
		return m.history[i].DiscountRate.LessThan(m.history[j].DiscountRate)
	})
}

// History returns the recorded valuations ordered by discount rate.
func (m *SensitivityModel) History() []Valuation { return m.history }

// Monotone reports whether the recorded reserves never rise as the discount rate rises.
func (m *SensitivityModel) Monotone() bool {
	for i := 1; i < len(m.history); i++ {
		if m.history[i].Reserve.GreaterThan(m.history[i-1].Reserve) {
			return false
		}
	}
	return true
}

// SetSize updates the scene dimensions
func (m *SensitivityModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the sensitivity scene
func (m *SensitivityModel) Update(msg tea.Msg) (*SensitivityModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.pending {
		return m, nil
	}
	switch {
	case key.Matches(km, SensitivityKeys.Up):
		m.slider.Increment()
	case key.Matches(km, SensitivityKeys.Down):
		m.slider.Decrement()
	case key.Matches(km, SensitivityKeys.Apply):
		m.pending = true
		rate := m.slider.Value
		return m, func() tea.Msg { return tuimsg.RecalculateMsg{DiscountRate: rate} }
	}
	return m, nil
}

// View renders the sensitivity scene
func (m *SensitivityModel) View() string {
	var b strings.Builder
	b.WriteString(m.slider.Render())
	b.WriteString("\n\n")
	if m.pending {
		b.WriteString(tuistyles.InfoStyle.Render("Valuing..."))
		b.WriteString("\n\n")
	}

	if len(m.history) == 0 {
		b.WriteString(tuistyles.SubtitleStyle.Render("No valuations recorded."))
		return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
	}

	b.WriteString(tuistyles.TitleStyle.Render("Valuations this session"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-10s %14s  %s\n", "Discount", "Reserve", "Winning Path")
	for _, v := range m.history {
		line := fmt.Sprintf("%-10s %14s  %s", pct(v.DiscountRate), v.Reserve.StringFixed(2), v.WinningPath)
		if v.DiscountRate.Equal(m.slider.Value) {
			line = tuistyles.WinningStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.Monotone() {
		b.WriteString(tuistyles.MetricPositiveStyle.Render("Reserves never rise as the discount rate rises."))
	} else {
		b.WriteString(tuistyles.ErrorStyle.Render("Warning: a higher discount rate produced a higher reserve."))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
