package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg fires while a transfer session is active so progress can be
// redrawn even with no user input.
type tickMsg time.Time

// pollCmd schedules the next progress poll. The interval bounds how
// long the loop ever waits before it can observe new progress or a
// settled session.
func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
