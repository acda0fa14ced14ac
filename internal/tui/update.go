package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/tui/scenes"
	"github.com/rgehrsitz/myga/internal/tui/tuimsg"
)

// GlobalKeys are the bindings available from every scene.
var GlobalKeys = struct {
	Quit, Help, Back, Summary, Paths, Sensitivity key.Binding
}{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Summary:     key.NewBinding(key.WithKeys("1", "s"), key.WithHelp("s", "summary")),
	Paths:       key.NewBinding(key.WithKeys("2", "p"), key.WithHelp("p", "paths")),
	Sensitivity: key.NewBinding(key.WithKeys("3", "d"), key.WithHelp("d", "discount rate")),
}

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 4
		m.summaryModel.SetSize(m.width, contentHeight)
		m.pathsModel.SetSize(m.width, contentHeight)
		if m.sensitivityModel != nil {
			m.sensitivityModel.SetSize(m.width, contentHeight)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.RunLoadedMsg:
		m.config = msg.Config
		m.sensitivityModel = scenes.NewSensitivityModel(msg.Config.CARVM.DiscountRate)
		m.sensitivityModel.SetSize(m.width, m.height-4)
		return m.startValuation(msg.Config.CARVM.DiscountRate)

	case tuimsg.RecalculateMsg:
		if m.config == nil {
			return m, nil
		}
		return m.startValuation(msg.DiscountRate)

	case tuimsg.ReserveComputedMsg:
		m.loading = false
		if m.sensitivityModel != nil {
			m.sensitivityModel.SetPending(false)
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		if m.baseline == nil {
			b := msg.Result.Reserve
			m.baseline = &b
		}
		m.summaryModel.SetResult(msg.Result, m.baseline)
		m.pathsModel.SetResult(msg.Result)
		if m.sensitivityModel != nil {
			m.sensitivityModel.Record(msg.Result)
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startValuation(rate decimal.Decimal) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = "Valuing CARVM reserve at " + rate.Shift(2).StringFixed(2) + "%..."
	if m.sensitivityModel != nil {
		m.sensitivityModel.SetPending(true)
	}
	return m, tea.Batch(valueCmd(m.runner, m.config, rate), m.spinner.Tick)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, GlobalKeys.Quit) {
		return m, tea.Quit
	}
	// Any key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, GlobalKeys.Help):
		return m.navigate(SceneHelp)
	case key.Matches(msg, GlobalKeys.Back):
		if m.currentScene != SceneSummary {
			back := m.previousScene
			if back == m.currentScene {
				back = SceneSummary
			}
			return m.navigate(back)
		}
		return m, nil
	case key.Matches(msg, GlobalKeys.Summary):
		return m.navigate(SceneSummary)
	case key.Matches(msg, GlobalKeys.Paths):
		return m.navigate(ScenePaths)
	case key.Matches(msg, GlobalKeys.Sensitivity):
		return m.navigate(SceneSensitivity)
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if scene == m.currentScene {
		return m, nil
	}
	return m, func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	case ScenePaths:
		m.pathsModel, cmd = m.pathsModel.Update(msg)
	case SceneSensitivity:
		if m.sensitivityModel != nil {
			m.sensitivityModel, cmd = m.sensitivityModel.Update(msg)
		}
	}
	return m, cmd
}
