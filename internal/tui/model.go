package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"missviz/internal/render"
)

// AppModel holds the viewer state.
type AppModel struct {
	// Data
	Matrix *render.Matrix
	Source string // Shown in the header, usually the saved figure path

	// UI State
	WindowSize tea.WindowSizeMsg
	ShowLegend bool
	Ready      bool

	// Components
	Viewport viewport.Model
}

// InitialModel returns the viewer state for m.
func InitialModel(m *render.Matrix, source string) AppModel {
	return AppModel{
		Matrix:     m,
		Source:     source,
		ShowLegend: true,
	}
}

// Show runs the viewer full screen and blocks until the user quits.
func Show(m *render.Matrix, source string) error {
	app := InitialModel(m, source)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
