package tui

import (
	"testing"

	"github.com/edmistond/podcastdl/internal/feed"
)

func episodes(n int) []feed.Episode {
	eps := make([]feed.Episode, n)
	for i := range eps {
		eps[i] = feed.Episode{Title: "Episode"}
	}
	return eps
}

func TestSelection_MoveClampsAtEnds(t *testing.T) {
	sel := NewSelection(episodes(3))

	sel.MovePrevious()
	if sel.Index() != 0 {
		t.Errorf("index after MovePrevious at start = %d, want 0", sel.Index())
	}

	for i := 0; i < 10; i++ {
		sel.MoveNext()
	}
	if sel.Index() != 2 {
		t.Errorf("index after repeated MoveNext = %d, want 2", sel.Index())
	}

	sel.MovePrevious()
	if sel.Index() != 1 {
		t.Errorf("index after MovePrevious = %d, want 1", sel.Index())
	}
}

func TestSelection_CurrentOnEmpty(t *testing.T) {
	sel := NewSelection(nil)

	if _, _, ok := sel.Current(); ok {
		t.Error("Current on empty selection reported ok")
	}

	// Movement on an empty selection must not panic.
	sel.MoveNext()
	sel.MovePrevious()
	if sel.Index() != 0 {
		t.Errorf("index on empty selection = %d, want 0", sel.Index())
	}
}

func TestSelection_CurrentReturnsIndex(t *testing.T) {
	sel := NewSelection(episodes(5))
	sel.MoveNext()
	sel.MoveNext()

	_, index, ok := sel.Current()
	if !ok {
		t.Fatal("Current reported not ok")
	}
	if index != 2 {
		t.Errorf("Current index = %d, want 2", index)
	}
}
