package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/components"
	"github.com/rgehrsitz/myga/internal/tui/tuistyles"
)

// PathKeys are the bindings of the paths scene.
var PathKeys = struct {
	Next, Prev, Chart key.Binding
}{
	Next:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next path")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous path")),
	Chart: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle chart")),
}

var pathColumns = []table.Column{
	{Title: "Year", Width: 4},
	{Title: "Age", Width: 4},
	{Title: "Withdrawal", Width: 11},
	{Title: "AV EOY", Width: 11},
	{Title: "Death", Width: 11},
	{Title: "Surrender", Width: 11},
	{Title: "Annuitize", Width: 11},
	{Title: "Continue", Width: 11},
	{Title: "Reserve BOY", Width: 11},
	{Title: "Winner", Width: 13},
}

// PathsModel shows the reserve table of one behavior path at a time.
type PathsModel struct {
	result    *domain.CARVMResult
	selected  int
	table     table.Model
	showChart bool
	width     int
	height    int
}

// NewPathsModel creates the paths scene
func NewPathsModel() *PathsModel {
	t := table.New(
		table.WithColumns(pathColumns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = tuistyles.TableHeaderStyle
	s.Selected = tuistyles.TableHighlightStyle
	t.SetStyles(s)
	return &PathsModel{table: t}
}

// SetResult stores the valuation and selects its winning path.
func (m *PathsModel) SetResult(result *domain.CARVMResult) {
	m.result = result
	m.selected = 0
	if result != nil {
		for i, p := range result.Paths {
			if p.Name == result.WinningPath {
				m.selected = i
			}
		}
	}
	m.refresh()
}

// Selected returns the displayed path, or nil before a result is set.
func (m *PathsModel) Selected() *domain.PathResult {
	if m.result == nil || len(m.result.Paths) == 0 {
		return nil
	}
	return &m.result.Paths[m.selected]
}

// SetSize updates the scene dimensions
func (m *PathsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-8, 5))
}

// Update handles messages for the paths scene
func (m *PathsModel) Update(msg tea.Msg) (*PathsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && m.result != nil && len(m.result.Paths) > 0 {
		n := len(m.result.Paths)
		switch {
		case key.Matches(km, PathKeys.Next):
			m.selected = (m.selected + 1) % n
			m.refresh()
			return m, nil
		case key.Matches(km, PathKeys.Prev):
			m.selected = (m.selected + n - 1) % n
			m.refresh()
			return m, nil
		case key.Matches(km, PathKeys.Chart):
			m.showChart = !m.showChart
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *PathsModel) refresh() {
	p := m.Selected()
	if p == nil {
		m.table.SetRows(nil)
		return
	}
	m.table.SetRows(PathRows(p.Reserve.Rows))
	m.table.SetCursor(0)
}

// PathRows converts reserve rows to table rows; the winning benefit's cell is starred.
func PathRows(rows []domain.ReserveRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		benefits := r.Benefits()
		cells := make([]string, len(benefits))
		for k, b := range benefits {
			cells[k] = b.StringFixed(2)
			if domain.BenefitKind(k) == r.Winner {
				cells[k] += "*"
			}
		}
		out[i] = table.Row{
			fmt.Sprint(r.PolicyYear),
			fmt.Sprint(r.AttainedAge),
			r.WD.StringFixed(2),
			r.AVEOY.StringFixed(2),
			cells[domain.BenefitDeath],
			cells[domain.BenefitSurrender],
			cells[domain.BenefitAnnuitization],
			cells[domain.BenefitContinuation],
			r.Reserve.StringFixed(2),
			strings.TrimSuffix(r.Winner.String(), " Benefit"),
		}
	}
	return out
}

// View renders the paths scene
func (m *PathsModel) View() string {
	p := m.Selected()
	if p == nil {
		return tuistyles.BorderStyle.Render(tuistyles.InfoStyle.Render("No valuation yet."))
	}

	tabs := make([]string, len(m.result.Paths))
	for i, path := range m.result.Paths {
		label := path.Name
		if path.Name == m.result.WinningPath {
			label += " ★"
		}
		style := tuistyles.SubtitleStyle.Padding(0, 1)
		if i == m.selected {
			style = tuistyles.StatusKeyStyle.Padding(0, 1).Underline(true)
		}
		tabs[i] = style.Render(label)
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s. Year-1 reserve %s, last-year basis %s.",
		p.Description, p.Reserve.InitialReserve().StringFixed(2), p.Reserve.Basis)))
	b.WriteString("\n\n")
	if m.showChart {
		chart := components.PathChart(*p)
		if m.width > 20 {
			chart.WithSize(min(m.width-4, 100), max(m.height-10, 6))
		}
		b.WriteString(chart.Render())
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(tuistyles.InfoStyle.Render("* marks the winning benefit"))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
