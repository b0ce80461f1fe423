package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, fetchCmd(m.addr, m.taskID)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case TickMsg:
		// Keep polling even after a terminal state so the final counts
		// stay on screen until the user quits.
		return m, tea.Batch(fetchCmd(m.addr, m.taskID), tickCmd())

	case StatusMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Status
			m.loaded = true
		}
	}

	return m, nil
}
