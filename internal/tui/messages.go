package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneSummary Scene = iota
	ScenePaths
	SceneSensitivity
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneSummary:
		return "Summary"
	case ScenePaths:
		return "Paths"
	case SceneSensitivity:
		return "Discount Rate"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}
