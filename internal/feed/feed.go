package feed

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
)

// Episode is one downloadable item parsed from the feed. Episodes are
// created once at startup and never mutated.
type Episode struct {
	// Title is empty when the feed item carries none.
	Title string
	// Published is nil when the feed item carries no timestamp.
	Published *time.Time
	// EnclosureURLs holds the candidate download URLs in document order.
	// May be empty.
	EnclosureURLs []string
}

// Feed is the parsed document: a title plus ordered episodes.
type Feed struct {
	Title    string
	Episodes []Episode
}

// ParseFile reads and parses a local feed document.
func ParseFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses RSS or Atom from r into a Feed.
func Parse(r io.Reader) (*Feed, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	out := &Feed{Title: parsed.Title}
	for _, item := range parsed.Items {
		out.Episodes = append(out.Episodes, Episode{
			Title:         item.Title,
			Published:     item.PublishedParsed,
			EnclosureURLs: enclosureURLs(item),
		})
	}
	return out, nil
}

// enclosureURLs collects candidate download URLs for one item:
// enclosures first, then media:content extensions, in document order.
func enclosureURLs(item *gofeed.Item) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil {
			add(enc.URL)
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, content := range media["content"] {
			add(content.Attrs["url"])
		}
	}
	return urls
}

// DisplayTitle returns the episode title or a placeholder, matching the
// list rendering.
func (e Episode) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled Episode"
	}
	return e.Title
}

// DisplayDate formats the publish timestamp or a placeholder.
func (e Episode) DisplayDate() string {
	if e.Published == nil {
		return "Unknown date"
	}
	return e.Published.Format("02 Jan 2006")
}

// DownloadURL returns the first candidate URL, or false when the
// episode has none.
func (e Episode) DownloadURL() (string, bool) {
	if len(e.EnclosureURLs) == 0 {
		return "", false
	}
	return e.EnclosureURLs[0], true
}
