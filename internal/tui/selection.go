package tui

import "github.com/edmistond/podcastdl/internal/feed"

// Selection is the cursor into the episode list. Moves clamp to the
// valid range and never wrap; with an empty list the cursor stays at
// zero and Current reports nothing.
type Selection struct {
	episodes []feed.Episode
	index    int
}

func NewSelection(episodes []feed.Episode) *Selection {
	return &Selection{episodes: episodes}
}

func (s *Selection) Len() int { return len(s.episodes) }

func (s *Selection) Index() int { return s.index }

// MoveNext advances the cursor, clamped to the last valid index.
func (s *Selection) MoveNext() {
	if s.index < len(s.episodes)-1 {
		s.index++
	}
}

// MovePrevious decrements the cursor, clamped to zero.
func (s *Selection) MovePrevious() {
	if s.index > 0 {
		s.index--
	}
}

// Current returns the selected episode and its index, or ok=false when
// the list is empty.
func (s *Selection) Current() (ep feed.Episode, index int, ok bool) {
	if len(s.episodes) == 0 {
		return feed.Episode{}, 0, false
	}
	return s.episodes[s.index], s.index, true
}

// Episodes returns the full episode slice for rendering.
func (s *Selection) Episodes() []feed.Episode { return s.episodes }
