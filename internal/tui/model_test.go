package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/tuimsg"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeRunner struct {
	mu    sync.Mutex
	rates []string
	err   error
}

// RunCARVM returns a two-path result whose reserve falls as the discount rate rises.
func (f *fakeRunner) RunCARVM(_ context.Context, cfg *domain.RunConfiguration) (*domain.CARVMResult, error) {
	f.mu.Lock()
	f.rates = append(f.rates, cfg.CARVM.DiscountRate.String())
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	reserve := cfg.Premium.Mul(decimal.NewFromInt(1).Sub(cfg.CARVM.DiscountRate)).Round(2)
	row := func(year int, r decimal.Decimal, w domain.BenefitKind) domain.ReserveRow {
		return domain.ReserveRow{PolicyYear: year, AttainedAge: cfg.IssueAge + year - 1, Death: r, Surrender: r.Sub(d("500")),
			Continuation: r, MaximumBenefit: r, Reserve: r, Winner: w}
	}
	return &domain.CARVMResult{
		ProductCode: cfg.ProductCode,
		IssueAge:    cfg.IssueAge,
		Premium:     cfg.Premium,
		Settings:    cfg.CARVM,
		Paths: []domain.PathResult{
			{Name: "No PW", Description: "No partial withdrawals", Reserve: domain.ReserveResult{Basis: domain.BasisAV,
				Rows: []domain.ReserveRow{row(1, reserve, domain.BenefitDeath), row(2, reserve.Add(d("900")), domain.BenefitContinuation)}}},
			{Name: "Max FPW", Description: "Maximum free withdrawal", Reserve: domain.ReserveResult{Basis: domain.BasisCSV,
				Rows: []domain.ReserveRow{row(1, reserve.Sub(d("250")), domain.BenefitSurrender)}}},
		},
		Reserve:     reserve,
		WinningPath: "No PW",
	}, nil
}

func testRun() *domain.RunConfiguration {
	return &domain.RunConfiguration{
		ProjectionAssumptions: domain.ProjectionAssumptions{ProductCode: "MYGA5", Premium: d("100000"), IssueAge: 60},
		CARVM:                 domain.CARVMSettings{DiscountRate: d("0.0425"), AnnuityDiscountRate: d("0.04"), MaxAge: 100},
	}
}

// run executes cmd and returns the messages it produces, flattening batches.
func run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func press(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and then every message its command produces.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range run(t, cmd) {
		switch out.(type) {
		case tuimsg.ReserveComputedMsg, tuimsg.RecalculateMsg, NavigateMsg:
			m = step(t, m, out)
		}
	}
	return m
}

func loaded(t *testing.T, runner *fakeRunner) Model {
	t.Helper()
	m := NewModel("run.yaml", runner)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return step(t, m, tuimsg.RunLoadedMsg{Path: "run.yaml", Config: testRun()})
}

func TestModel_LoadAndValue(t *testing.T) {
	runner := &fakeRunner{}
	m := loaded(t, runner)

	require.NotNil(t, m.Result())
	assert.False(t, m.loading)
	assert.True(t, m.Result().Reserve.Equal(d("95750")))
	assert.Equal(t, []string{"0.0425"}, runner.rates)

	view := m.View()
	assert.Contains(t, view, "MYGA - CARVM Reserve Viewer")
	assert.Contains(t, view, "CARVM Reserve")
	assert.Contains(t, view, "95750.00")
	assert.Contains(t, view, "run.yaml")
}

func TestModel_LoadingView(t *testing.T) {
	m := NewModel("run.yaml", &fakeRunner{})
	assert.Contains(t, m.View(), "Loading run.yaml...")
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t, &fakeRunner{})

	m = step(t, m, press("p"))
	assert.Equal(t, ScenePaths, m.CurrentScene())
	assert.Contains(t, m.View(), "Year-1 reserve 95750.00")

	m = step(t, m, press("tab"))
	assert.Equal(t, "Max FPW", m.pathsModel.Selected().Name)
	assert.Contains(t, m.View(), "Year-1 reserve 95500.00")

	m = step(t, m, press("?"))
	assert.Equal(t, SceneHelp, m.CurrentScene())
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	m = step(t, m, press("esc"))
	assert.Equal(t, ScenePaths, m.CurrentScene())

	m = step(t, m, press("s"))
	assert.Equal(t, SceneSummary, m.CurrentScene())
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, &fakeRunner{})
	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_Revalue(t *testing.T) {
	runner := &fakeRunner{}
	m := loaded(t, runner)

	m = step(t, m, press("d"))
	require.Equal(t, SceneSensitivity, m.CurrentScene())
	m = step(t, m, press("right"))
	m = step(t, m, press("right"))
	m = step(t, m, press("enter"))

	assert.Equal(t, []string{"0.0425", "0.0475"}, runner.rates)
	assert.True(t, m.Result().Settings.DiscountRate.Equal(d("0.0475")))
	require.Len(t, m.sensitivityModel.History(), 2)
	assert.True(t, m.sensitivityModel.Monotone())
	assert.Contains(t, m.View(), "Reserves never rise as the discount rate rises.")

	// The first valuation stays the baseline for the summary delta.
	require.NotNil(t, m.baseline)
	assert.True(t, m.baseline.Equal(d("95750")))
}

func TestModel_ValuationError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("mortality table 2012IAM not loaded")}
	m := loaded(t, runner)

	require.Error(t, m.Err())
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "mortality table 2012IAM not loaded")

	m = step(t, m, press("x"))
	assert.NoError(t, m.Err())
}

func TestModel_LoadError(t *testing.T) {
	m := NewModel("missing.yaml", &fakeRunner{})
	msgs := run(t, loadRunCmd("testdata/does-not-exist.yaml"))
	errMsg, ok := find[tuimsg.ErrorMsg](msgs)
	require.True(t, ok)

	m = step(t, m, errMsg)
	assert.Contains(t, m.View(), "failed to read file")
}

func TestSceneString(t *testing.T) {
	assert.Equal(t, "Summary", SceneSummary.String())
	assert.Equal(t, "Discount Rate", SceneSensitivity.String())
	assert.Equal(t, "Unknown", Scene(42).String())
}
