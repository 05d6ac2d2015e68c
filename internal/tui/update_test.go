package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/edmistond/podcastdl/internal/download"
	"github.com/edmistond/podcastdl/internal/feed"
)

// blockingTransferer holds the transfer open until released or the
// context is cancelled, so tests can poke at the model mid-download.
type blockingTransferer struct {
	release chan struct{}
}

func newBlockingTransferer() *blockingTransferer {
	return &blockingTransferer{release: make(chan struct{})}
}

func (b *blockingTransferer) Transfer(ctx context.Context, url string, sink io.Writer, meta download.MetaFunc, progress download.ProgressFunc) error {
	if meta != nil {
		meta(download.Meta{Total: 100})
	}
	if progress != nil {
		if err := progress(100, 25); err != nil {
			return err
		}
	}
	select {
	case <-b.release:
		if _, err := sink.Write([]byte("payload")); err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func testFeed(n int) *feed.Feed {
	f := &feed.Feed{Title: "Test Feed"}
	for i := 0; i < n; i++ {
		f.Episodes = append(f.Episodes, feed.Episode{
			Title:         "Episode",
			EnclosureURLs: []string{"http://example.com/ep.mp3"},
		})
	}
	return f
}

func testModel(t *testing.T, transfer download.Transferer, n int) Model {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ctrl := download.NewController(transfer, t.TempDir())
	return NewModel(testFeed(n), ctrl, DefaultPollInterval)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// settle ticks the model until the active session reaches a terminal
// state.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for m.ctrl.Active() {
		if time.Now().After(deadline) {
			t.Fatal("session did not settle")
		}
		updated, _ := m.Update(tickMsg(time.Now()))
		m = updated.(Model)
		time.Sleep(5 * time.Millisecond)
	}
	return m
}

func TestUpdate_QuitWhenIdle(t *testing.T) {
	m := testModel(t, newBlockingTransferer(), 3)

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("command produced %v, want tea.QuitMsg", msg)
	}
}

func TestUpdate_DownloadStartsSession(t *testing.T) {
	tr := newBlockingTransferer()
	m := testModel(t, tr, 3)

	updated, cmd := m.Update(keyRune('d'))
	m = updated.(Model)

	if !m.ctrl.Active() {
		t.Fatal("controller not active after pressing d")
	}
	if cmd == nil {
		t.Error("expected a poll command after starting a download")
	}
	if !strings.Contains(m.status, "Downloading") {
		t.Errorf("status = %q, want a Downloading message", m.status)
	}

	close(tr.release)
	m = settle(t, m)
	if m.ctrl.State() != download.StateCompleted {
		t.Errorf("state = %v, want StateCompleted", m.ctrl.State())
	}
	if !m.downloaded["http://example.com/ep.mp3"] {
		t.Error("completed episode not marked as downloaded")
	}
}

func TestUpdate_SelectionMovesDuringDownload(t *testing.T) {
	tr := newBlockingTransferer()
	m := testModel(t, tr, 3)

	updated, _ := m.Update(keyRune('d'))
	m = updated.(Model)
	if !m.ctrl.Active() {
		t.Fatal("controller not active")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.sel.Index() != 1 {
		t.Errorf("cursor = %d after down mid-download, want 1", m.sel.Index())
	}

	// A second download request is refused without disturbing the
	// running session.
	updated, _ = m.Update(keyRune('d'))
	m = updated.(Model)
	if m.ctrl.State() != download.StateActive {
		t.Errorf("state = %v after second d, want StateActive", m.ctrl.State())
	}

	m.ctrl.Cancel()
	settle(t, m)
}

func TestUpdate_CancelKeySettlesCancelled(t *testing.T) {
	tr := newBlockingTransferer()
	m := testModel(t, tr, 1)

	updated, _ := m.Update(keyRune('d'))
	m = updated.(Model)

	updated, _ = m.Update(keyRune('x'))
	m = updated.(Model)

	m = settle(t, m)
	if m.ctrl.State() != download.StateCancelled {
		t.Fatalf("state = %v, want StateCancelled", m.ctrl.State())
	}
	if !strings.Contains(m.status, "cancelled") {
		t.Errorf("status = %q, want a cancelled message", m.status)
	}
}

func TestUpdate_QuitDuringDownloadCancelsFirst(t *testing.T) {
	tr := newBlockingTransferer()
	m := testModel(t, tr, 1)

	updated, _ := m.Update(keyRune('d'))
	m = updated.(Model)

	updated, cmd := m.Update(keyRune('q'))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a poll command while the cancel settles")
	}
	if !m.quitting {
		t.Error("model not marked quitting")
	}

	m = settle(t, m)
	if m.ctrl.State() != download.StateCancelled {
		t.Errorf("state = %v, want StateCancelled", m.ctrl.State())
	}
}

func TestUpdate_DetailViewToggle(t *testing.T) {
	m := testModel(t, newBlockingTransferer(), 2)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.view != detailView {
		t.Fatalf("view = %v after enter, want detailView", m.view)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.view != listView {
		t.Errorf("view = %v after esc, want listView", m.view)
	}
}

func TestView_ShowsTargetFilename(t *testing.T) {
	m := testModel(t, newBlockingTransferer(), 2)
	m.width = 80
	m.height = 24

	out := m.View()
	if !strings.Contains(out, "Episode.mp3") {
		t.Errorf("view does not show the target filename:\n%s", out)
	}
	if !strings.Contains(out, "Test Feed") {
		t.Errorf("view does not show the feed title:\n%s", out)
	}
}

func TestView_NoMediaFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	f := &feed.Feed{
		Title:    "Test Feed",
		Episodes: []feed.Episode{{Title: "Silent"}},
	}
	ctrl := download.NewController(newBlockingTransferer(), t.TempDir())
	m := NewModel(f, ctrl, DefaultPollInterval)
	m.width = 80
	m.height = 24

	if out := m.View(); !strings.Contains(out, "No media found") {
		t.Errorf("view does not flag a missing enclosure:\n%s", out)
	}

	updated, _ := m.Update(keyRune('d'))
	m = updated.(Model)
	if m.ctrl.Active() {
		t.Error("download started for an episode with no media")
	}
}
