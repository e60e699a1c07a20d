package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Vertical space taken by the header and footer.
const chromeHeight = 4

func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		height := msg.Height - chromeHeight
		if height < 1 {
			height = 1
		}
		if !m.Ready {
			m.Viewport = viewport.New(msg.Width, height)
			m.Ready = true
		} else {
			m.Viewport.Width = msg.Width
			m.Viewport.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "l":
			m.ShowLegend = !m.ShowLegend
			m.refresh()
			return m, nil
		case "g", "home":
			m.Viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.Viewport.GotoBottom()
			return m, nil
		}
	}

	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// refresh rebuilds the viewport content for the current width.
func (m *AppModel) refresh() {
	if !m.Ready {
		return
	}
	m.Viewport.SetContent(RenderGrid(m.Matrix, m.WindowSize.Width, m.ShowLegend))
}
