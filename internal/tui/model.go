// Package tui is a terminal viewer for the CARVM reserve of one run file.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/config"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tui/scenes"
	"github.com/rgehrsitz/myga/internal/tui/tuimsg"
)

// ReserveRunner values a run configuration. *calculation.CalculationEngine satisfies it.
type ReserveRunner interface {
	RunCARVM(ctx context.Context, cfg *domain.RunConfiguration) (*domain.CARVMResult, error)
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	runPath string
	config  *domain.RunConfiguration
	runner  ReserveRunner

	// Latest valuation, and the reserve of the first one for change display.
	result   *domain.CARVMResult
	baseline *decimal.Decimal

	summaryModel     *scenes.SummaryModel
	pathsModel       *scenes.PathsModel
	sensitivityModel *scenes.SensitivityModel

	err error

	loading        bool
	loadingMessage string
	spinner        spinner.Model
}

// NewModel creates a model that loads runPath on start and values it with runner.
func NewModel(runPath string, runner ReserveRunner) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		currentScene:   SceneSummary,
		runPath:        runPath,
		runner:         runner,
		summaryModel:   scenes.NewSummaryModel(),
		pathsModel:     scenes.NewPathsModel(),
		loading:        true,
		loadingMessage: "Loading " + runPath + "...",
		spinner:        s,
		width:          80,
		height:         24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadRunCmd(m.runPath), m.spinner.Tick)
}

// loadRunCmd returns a command that parses and validates the run file
func loadRunCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.RunLoadedMsg{Path: path, Config: cfg}
	}
}

// valueCmd returns a command that values cfg at the given discount rate
func valueCmd(runner ReserveRunner, cfg *domain.RunConfiguration, rate decimal.Decimal) tea.Cmd {
	c := cfg.DeepCopy()
	c.CARVM.DiscountRate = rate
	return func() tea.Msg {
		res, err := runner.RunCARVM(context.Background(), c)
		return tuimsg.ReserveComputedMsg{DiscountRate: rate, Result: res, Err: err}
	}
}

// Result returns the latest valuation, or nil.
func (m Model) Result() *domain.CARVMResult { return m.result }

// CurrentScene returns the scene on screen.
func (m Model) CurrentScene() Scene { return m.currentScene }

// Err returns the error on screen, or nil.
func (m Model) Err() error { return m.err }
