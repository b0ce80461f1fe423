// Package tui renders a live terminal view of one batch task, polling the
// server's status endpoint once a second.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nfoedit/nfoedit/web/api"
)

// Model is the watch view state
type Model struct {
	addr   string
	taskID string

	status api.StatusResponse
	err    error
	loaded bool
	width  int
}

// NewModel creates a watch view for a task on a running server
func NewModel(addr, taskID string) Model {
	return Model{addr: addr, taskID: taskID, width: 80}
}

// Init starts the poll loop
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.addr, m.taskID), tickCmd())
}

// TickMsg triggers the next poll
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// StatusMsg carries one poll result
type StatusMsg struct {
	Status api.StatusResponse
	Err    error
}

func fetchCmd(addr, taskID string) tea.Cmd {
	return func() tea.Msg {
		status, err := fetchStatus(addr, taskID)
		return StatusMsg{Status: status, Err: err}
	}
}

func fetchStatus(addr, taskID string) (api.StatusResponse, error) {
	var status api.StatusResponse

	resp, err := http.Get(addr + "/api/batch/status/" + taskID)
	if err != nil {
		return status, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("server returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, err
	}
	return status, nil
}
