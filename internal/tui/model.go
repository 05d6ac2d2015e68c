package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/edmistond/podcastdl/internal/download"
	"github.com/edmistond/podcastdl/internal/feed"
	"github.com/edmistond/podcastdl/internal/history"
	"github.com/edmistond/podcastdl/internal/utils"
)

// DefaultPollInterval bounds how long the UI waits between progress
// redraws while a transfer is active; it is also the worst-case
// latency between a cancel keypress and the flag being observed.
const DefaultPollInterval = 100 * time.Millisecond

type viewState int

const (
	listView viewState = iota
	detailView
	historyView
)

// Model is the single interactive loop: it owns the selection cursor
// and drives the download controller one poll tick at a time.
type Model struct {
	feedTitle string
	sel       *Selection
	ctrl      *download.Controller

	status   string
	width    int
	height   int
	view     viewState
	quitting bool

	pollInterval time.Duration
	bar          progress.Model
	help         help.Model
	keys         keyMap

	// downloaded marks episode URLs already recorded in history.
	downloaded map[string]bool

	scrollOffset int

	histEntries []history.Entry
	histCursor  int
}

// NewModel builds the root model for the given parsed feed and
// controller. The downloaded set is loaded best-effort: a missing or
// broken history database only loses the checkmarks.
func NewModel(f *feed.Feed, ctrl *download.Controller, pollInterval time.Duration) Model {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	downloaded, err := history.URLSet()
	if err != nil {
		utils.Debug("loading history URL set: %v", err)
		downloaded = make(map[string]bool)
	}

	return Model{
		feedTitle:    f.Title,
		sel:          NewSelection(f.Episodes),
		ctrl:         ctrl,
		pollInterval: pollInterval,
		bar:          progress.New(progress.WithDefaultGradient()),
		help:         help.New(),
		keys:         defaultKeyMap(),
		downloaded:   downloaded,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// visibleCount returns how many episode rows fit in the current
// terminal height.
func (m Model) visibleCount() int {
	// Status line, progress line, box borders and footer.
	available := m.height - 7
	if available < 1 {
		available = 1
	}
	if m.sel.Len() > 0 && available > m.sel.Len() {
		available = m.sel.Len()
	}
	return available
}

// clampScroll keeps the cursor inside the visible window.
func (m *Model) clampScroll() {
	cursor := m.sel.Index()
	visible := m.visibleCount()
	if cursor < m.scrollOffset {
		m.scrollOffset = cursor
	}
	if cursor >= m.scrollOffset+visible {
		m.scrollOffset = cursor - visible + 1
	}
}
