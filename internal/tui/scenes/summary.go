package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/components"
	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// SummaryModel shows the final reserve, the winning path and one card per behavior path.
type SummaryModel struct {
	result   *domain.CARVMResult
	baseline *decimal.Decimal
	width    int
	height   int
}

// NewSummaryModel creates an empty summary scene
func NewSummaryModel() *SummaryModel {
	return &SummaryModel{}
}

// SetResult stores the valuation to display. baseline is the reserve of the first
// valuation of the session; nil hides the change line.
func (m *SummaryModel) SetResult(result *domain.CARVMResult, baseline *decimal.Decimal) {
	m.result = result
	m.baseline = baseline
}

// SetSize updates the scene dimensions
func (m *SummaryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update is a no-op; the summary has no interactive state.
func (m *SummaryModel) Update(msg tea.Msg) (*SummaryModel, tea.Cmd) {
	return m, nil
}

// View renders the summary scene
func (m *SummaryModel) View() string {
	if m.result == nil {
		return tuistyles.BorderStyle.Render(tuistyles.InfoStyle.Render("No valuation yet."))
	}
	r := m.result

	header := tuistyles.TitleStyle.Render(fmt.Sprintf("%s  issue age %d  premium %s",
		r.ProductCode, r.IssueAge, tuistyles.FormatCurrency(r.Premium))) + "\n" +
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("Discount %s, annuities %s, valued to age %d",
			pct(r.Settings.DiscountRate), pct(r.Settings.AnnuityDiscountRate), r.Settings.MaxAge))

	reserve := components.NewMetricCard("CARVM Reserve", r.Reserve.StringFixed(2)).
		WithDescription(pctOfPremium(r.Reserve, r.Premium) + " of premium").
		Highlighted(true)
	if m.baseline != nil {
		reserve.WithDelta(r.Reserve.Sub(*m.baseline))
	}
	winner := components.NewMetricCard("Winning Path", r.WinningPath)
	if p, ok := r.Path(r.WinningPath); ok {
		winner.WithDescription(firstYearWinner(p))
	}
	cards := []*components.MetricCard{reserve, winner}

	for _, p := range r.Paths {
		card := components.NewMetricCard(p.Name, p.Reserve.InitialReserve().StringFixed(2)).
			WithDelta(p.Reserve.InitialReserve().Sub(r.Reserve)).
			WithDescription(fmt.Sprintf("%d years, %s basis", len(p.Reserve.Rows), p.Reserve.Basis)).
			Highlighted(p.Name == r.WinningPath)
		cards = append(cards, card)
	}

	columns := 4
	if m.width > 0 {
		columns = max(m.width/28, 1)
	}

	var body strings.Builder
	body.WriteString(header)
	body.WriteString("\n\n")
	body.WriteString(components.MetricGrid(cards, columns))
	if p, ok := r.Path(r.WinningPath); ok {
		body.WriteString("\n\n")
		chart := components.PathChart(*p)
		if m.width > 20 {
			chart.WithSize(min(m.width-4, 100), 10)
		}
		body.WriteString(chart.Render())
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(body.String())
}

func firstYearWinner(p *domain.PathResult) string {
	if len(p.Reserve.Rows) == 0 {
		return ""
	}
	return "year 1: " + p.Reserve.Rows[0].Winner.String()
}

func pct(d decimal.Decimal) string { return d.Shift(2).StringFixed(2) + "%" }

func pctOfPremium(part, premium decimal.Decimal) string {
	if premium.IsZero() {
		return "n/a"
	}
	return part.Div(premium).Shift(2).StringFixed(2) + "%"
}
