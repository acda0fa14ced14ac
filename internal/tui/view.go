package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.loading {
		return m.renderApp(m.renderLoading())
	}

	var content string
	switch m.currentScene {
	case SceneSummary:
		content = m.summaryModel.View()
	case ScenePaths:
		content = m.pathsModel.View()
	case SceneSensitivity:
		if m.sensitivityModel != nil {
			content = m.sensitivityModel.View()
		}
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-4, 1)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("MYGA - CARVM Reserve Viewer")
	crumb := m.currentScene.String()
	if m.result != nil {
		crumb = fmt.Sprintf("%s / %s", m.result.ProductCode, crumb)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	bindings := []key.Binding{GlobalKeys.Summary, GlobalKeys.Paths, GlobalKeys.Sensitivity, GlobalKeys.Help, GlobalKeys.Quit}
	shortcuts := make([]string, len(bindings))
	for i, b := range bindings {
		shortcuts[i] = formatShortcut(b)
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.runPath != "" {
		name := SubtitleStyle.Render(m.runPath)
		gap := m.width - lipgloss.Width(statusText) - lipgloss.Width(name) - 4
		statusText += strings.Repeat(" ", max(0, gap)) + name
	}
	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(b key.Binding) string {
	h := b.Help()
	return StatusKeyStyle.Render(h.Key) + " " + h.Desc
}

// renderLoading renders the spinner and what is running
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return BorderStyle.Render(m.spinner.View() + " " + message)
}

// renderError renders an error message
func (m Model) renderError() string {
	return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress any key to continue...", m.err))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	return BorderStyle.Render(`MYGA - CARVM Reserve Viewer

KEYBOARD SHORTCUTS:
  s, 1       Summary: reserve, winning path, path cards
  p, 2       Paths: reserve table per behavior path
  d, 3       Discount rate: revalue at other CARVM rates
  ?          Show this help
  ESC        Go back
  q/Ctrl+C   Quit

PATHS:
  tab        Next path
  shift+tab  Previous path
  g          Toggle reserve chart
  ↑/↓        Scroll years

DISCOUNT RATE:
  ←/→        Move the rate by 25bp
  enter      Revalue at the selected rate`)
}
