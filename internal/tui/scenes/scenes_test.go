package scenes

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/tuimsg"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func result(rate, reserve string) *domain.CARVMResult {
	return &domain.CARVMResult{
		ProductCode: "MYGA5",
		IssueAge:    60,
		Premium:     d("100000"),
		Settings:    domain.CARVMSettings{DiscountRate: d(rate), AnnuityDiscountRate: d("0.04"), MaxAge: 100},
		Paths: []domain.PathResult{
			{Name: "No PW", Reserve: domain.ReserveResult{Rows: []domain.ReserveRow{{PolicyYear: 1, Reserve: d(reserve)}}}},
			{Name: "Max FPW", Reserve: domain.ReserveResult{Rows: []domain.ReserveRow{{PolicyYear: 1, Reserve: d(reserve)}}}},
		},
		Reserve:     d(reserve),
		WinningPath: "Max FPW",
	}
}

func TestPathRows(t *testing.T) {
	rows := PathRows([]domain.ReserveRow{{
		PolicyYear: 1, AttainedAge: 60, WD: d("0"), AVEOY: d("105000"),
		Death: d("105000"), Surrender: d("97000"), Annuitization: d("99000.5"), Continuation: d("105000"),
		Reserve: d("105000"), Winner: domain.BenefitDeath,
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, "105000.00*", rows[0][4], "Death wins the tie and is starred")
	assert.Equal(t, "99000.50", rows[0][6])
	assert.Equal(t, "105000.00", rows[0][7], "Tied continuation is not starred")
	assert.Equal(t, "Death", rows[0][9])
}

func TestPathsModel_SelectsWinningPath(t *testing.T) {
	m := NewPathsModel()
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No valuation yet.")

	m.SetResult(result("0.0425", "95000"))
	assert.Equal(t, "Max FPW", m.Selected().Name)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "No PW", m.Selected().Name)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "Max FPW", m.Selected().Name)

	assert.Contains(t, m.View(), "Max FPW ★")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Contains(t, m.View(), "reserve vs maximum benefit")
}

func TestSensitivityModel(t *testing.T) {
	m := NewSensitivityModel(d("0.0425"))
	assert.Contains(t, m.View(), "No valuations recorded.")

	m.Record(result("0.05", "94000"))
	m.Record(result("0.04", "96000"))
	m.Record(result("0.0425", "95000"))
	m.Record(result("0.0425", "95100"))
	h := m.History()
	require.Len(t, h, 3)
	assert.True(t, h[0].DiscountRate.Equal(d("0.04")))
	assert.True(t, h[1].Reserve.Equal(d("95100")), "Same rate replaces the earlier valuation")
	assert.True(t, m.Monotone())

	m.Record(result("0.06", "99000"))
	assert.False(t, m.Monotone())
	assert.Contains(t, m.View(), "Warning: a higher discount rate produced a higher reserve.")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	assert.True(t, m.Rate().Equal(d("0.04")))

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.RecalculateMsg)
	require.True(t, ok)
	assert.True(t, msg.DiscountRate.Equal(d("0.04")))
	assert.Contains(t, m.View(), "Valuing...")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "Keys are ignored while a valuation runs")
}

func TestSummaryModel(t *testing.T) {
	m := NewSummaryModel()
	assert.Contains(t, m.View(), "No valuation yet.")

	base := d("96000")
	m.SetSize(120, 30)
	m.SetResult(result("0.0425", "95000"), &base)
	out := m.View()
	assert.Contains(t, out, "MYGA5  issue age 60")
	assert.Contains(t, out, "Discount 4.25%, annuities 4.00%, valued to age 100")
	assert.Contains(t, out, "95.00% of premium")
	assert.Contains(t, out, "▼ $1.0K")
}
