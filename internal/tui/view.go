package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/edmistond/podcastdl/internal/download"
)

func (m Model) View() string {
	if m.quitting && !m.ctrl.Active() {
		return ""
	}

	switch m.view {
	case detailView:
		return m.detailViewRender()
	case historyView:
		return m.historyViewRender()
	default:
		return m.listViewRender()
	}
}

func (m Model) listViewRender() string {
	var b strings.Builder

	if m.feedTitle != "" {
		b.WriteString(HeaderStyle.Render(m.feedTitle))
		b.WriteString("\n")
	}
	b.WriteString(StatusStyle.Render(m.statusLine()))
	b.WriteString("\n")

	if m.ctrl.Active() {
		b.WriteString(m.progressLine())
		b.WriteString("\n")
	}

	b.WriteString(m.episodeBox())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	return "Select an episode and press 'd' to download"
}

func (m Model) progressLine() string {
	current, total, _, known := m.ctrl.Progress()
	if !known {
		return fmt.Sprintf("  %s", humanize.Bytes(uint64(current)))
	}
	return fmt.Sprintf("%s %s / %s",
		m.bar.View(),
		humanize.Bytes(uint64(current)),
		humanize.Bytes(uint64(total)))
}

// episodeBox renders the scrollable episode list with the filename the
// selected episode would be saved as, so the target is visible before
// committing to a download.
func (m Model) episodeBox() string {
	if m.sel.Len() == 0 {
		return BoxStyle.Render(DimStyle.Render("No episodes in feed"))
	}

	var rows []string
	visible := m.visibleCount()
	end := m.scrollOffset + visible
	if end > m.sel.Len() {
		end = m.sel.Len()
	}

	episodes := m.sel.Episodes()
	for i := m.scrollOffset; i < end; i++ {
		ep := episodes[i]
		line := fmt.Sprintf("%d: %s (%s)", i, ep.DisplayTitle(), ep.DisplayDate())

		if url, ok := ep.DownloadURL(); ok && m.downloaded[url] {
			line = DownloadedMarkStyle.Render("✓") + " " + line
		} else {
			line = "  " + line
		}

		if i == m.sel.Index() {
			line = SelectedStyle.Render(line)
		}
		rows = append(rows, line)
	}

	box := BoxStyle.Render(strings.Join(rows, "\n"))
	if title := m.selectionTitle(); title != "" {
		return DimStyle.Render("Saves as: ") + title + "\n" + box
	}
	return box
}

// selectionTitle names the file the selected episode would download
// to, or flags that it has nothing to download.
func (m Model) selectionTitle() string {
	ep, index, ok := m.sel.Current()
	if !ok {
		return ""
	}
	if _, ok := ep.DownloadURL(); !ok {
		return "No media found"
	}
	return download.EpisodeFilename(ep.Title, index)
}

func (m Model) detailViewRender() string {
	ep, index, ok := m.sel.Current()
	if !ok {
		return m.listViewRender()
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Episode details"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Title", ep.DisplayTitle())
	row("Published", ep.DisplayDate())
	row("Saves as", download.EpisodeFilename(ep.Title, index))

	if url, ok := ep.DownloadURL(); ok {
		row("URL", url)
		if m.downloaded[url] {
			row("Status", DownloadedMarkStyle.Render("downloaded"))
		}
	} else {
		row("URL", DimStyle.Render("no media found"))
	}

	if meta := m.ctrl.Meta(); m.ctrl.URL() != "" && m.ctrl.Filename() == download.EpisodeFilename(ep.Title, index) {
		if meta.Total > 0 {
			row("Size", humanize.Bytes(uint64(meta.Total)))
		}
		if meta.ContentType != "" {
			row("Type", meta.ContentType)
		}
		if meta.SuggestedName != "" {
			row("Server name", meta.SuggestedName)
		}
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("esc to go back"))
	return BoxStyle.Render(b.String())
}

func (m Model) historyViewRender() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Download history"))
	b.WriteString("\n\n")

	if len(m.histEntries) == 0 {
		b.WriteString(DimStyle.Render("Nothing downloaded yet"))
	} else {
		for i, e := range m.histEntries {
			line := fmt.Sprintf("%s  %s  %s",
				e.CompletedTime().Format("02 Jan 2006 15:04"),
				humanize.Bytes(uint64(e.TotalSize)),
				e.Filename)
			if i == m.histCursor {
				line = SelectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("esc to go back"))
	return BoxStyle.Render(b.String())
}
