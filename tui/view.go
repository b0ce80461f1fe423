package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// View renders the watch view
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("nfoedit batch task"))
	b.WriteString("  " + m.taskID + "\n\n")

	if m.err != nil {
		b.WriteString(failStyle.Render("error: "+m.err.Error()) + "\n")
		b.WriteString(helpStyle.Render("\nq quit  r retry\n"))
		return b.String()
	}
	if !m.loaded {
		b.WriteString("loading...\n")
		return b.String()
	}

	s := m.status
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("status:"), s.Status))
	if s.Stale {
		b.WriteString(staleStyle.Render("files changed since preview") + "\n")
	}

	b.WriteString("\n" + renderBar(s.Progress, min(m.width-10, 50)) +
		fmt.Sprintf(" %3.0f%%\n\n", s.Progress))

	b.WriteString(fmt.Sprintf("%s %d/%d   %s %s   %s %s\n",
		labelStyle.Render("processed:"), s.Processed, s.Total,
		labelStyle.Render("ok:"), okStyle.Render(fmt.Sprintf("%d", s.Success)),
		labelStyle.Render("failed:"), failStyle.Render(fmt.Sprintf("%d", s.Failed)),
	))

	if len(s.Errors) > 0 {
		b.WriteString("\n" + labelStyle.Render("recent errors:") + "\n")
		for _, e := range s.Errors {
			b.WriteString(failStyle.Render(fmt.Sprintf("  %s: %s", e.Filename, e.Message)) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("\nq quit  r refresh\n"))
	return b.String()
}

func renderBar(progress float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(progress / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}
