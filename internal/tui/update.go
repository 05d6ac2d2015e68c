package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/edmistond/podcastdl/internal/download"
	"github.com/edmistond/podcastdl/internal/history"
	"github.com/edmistond/podcastdl/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 4
		m.help.Width = msg.Width
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick()

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit and cancel work from every view, even mid-download.
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctrl.Active() {
			// Let the session settle so the partial file is removed
			// before the program exits.
			m.ctrl.Cancel()
			m.quitting = true
			m.status = m.ctrl.Status()
			return m, pollCmd(m.pollInterval)
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
		return m, nil
	}

	switch m.view {
	case historyView:
		return m.handleHistoryKey(msg)
	case detailView:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Detail) {
			m.view = listView
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sel.MovePrevious()
		m.clampScroll()

	case key.Matches(msg, m.keys.Down):
		m.sel.MoveNext()
		m.clampScroll()

	case key.Matches(msg, m.keys.Download):
		return m.startDownload()

	case key.Matches(msg, m.keys.Detail):
		if _, _, ok := m.sel.Current(); ok {
			m.view = detailView
		}

	case key.Matches(msg, m.keys.History):
		entries, err := history.List()
		if err != nil {
			utils.Debug("loading history: %v", err)
			m.status = fmt.Sprintf("Could not load history: %v", err)
			return m, nil
		}
		m.histEntries = entries
		m.histCursor = 0
		m.view = historyView

	case key.Matches(msg, m.keys.Copy):
		m.copySelectedURL()
	}

	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.History):
		m.view = listView

	case key.Matches(msg, m.keys.Up):
		if m.histCursor > 0 {
			m.histCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.histCursor < len(m.histEntries)-1 {
			m.histCursor++
		}
	}
	return m, nil
}

func (m Model) startDownload() (tea.Model, tea.Cmd) {
	ep, index, ok := m.sel.Current()
	if !ok {
		m.status = download.ErrNoSelection.Error()
		return m, nil
	}

	err := m.ctrl.Start(ep, index)
	switch {
	case err == nil:
		m.status = m.ctrl.Status()
		return m, tea.Batch(m.bar.SetPercent(0), pollCmd(m.pollInterval))

	case errors.Is(err, download.ErrActiveSession):
		// Controller status already describes the running download.
		return m, nil

	case errors.Is(err, download.ErrNoDownloadURL):
		m.status = fmt.Sprintf("No media found for %s", ep.DisplayTitle())
		return m, nil

	default:
		m.status = err.Error()
		return m, nil
	}
}

func (m *Model) copySelectedURL() {
	ep, _, ok := m.sel.Current()
	if !ok {
		return
	}
	url, ok := ep.DownloadURL()
	if !ok {
		m.status = fmt.Sprintf("No media found for %s", ep.DisplayTitle())
		return
	}
	if err := clipboard.WriteAll(url); err != nil {
		utils.Debug("copying URL to clipboard: %v", err)
		m.status = fmt.Sprintf("Could not copy URL: %v", err)
		return
	}
	m.status = fmt.Sprintf("Copied URL for %s", ep.DisplayTitle())
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.ctrl.PollTick()
	m.status = m.ctrl.Status()

	if m.ctrl.Active() {
		_, _, percent, known := m.ctrl.Progress()
		cmds := []tea.Cmd{pollCmd(m.pollInterval)}
		if known {
			cmds = append(cmds, m.bar.SetPercent(float64(percent)/100))
		}
		return m, tea.Batch(cmds...)
	}

	// Session settled between ticks.
	if m.ctrl.State() == download.StateCompleted {
		if url := m.ctrl.URL(); url != "" {
			m.downloaded[url] = true
		}
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, nil
}
