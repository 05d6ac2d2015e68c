package download

import (
	"fmt"
	"strings"
)

const invalidFilenameChars = `/\?%*:|"<>`

// SanitizeTitle turns an episode title into a safe filename: every
// filesystem-hostile character becomes an underscore and the result
// always carries a .mp3 suffix. Idempotent.
func SanitizeTitle(title string) string {
	sanitized := title
	for _, c := range invalidFilenameChars {
		sanitized = strings.ReplaceAll(sanitized, string(c), "_")
	}
	if !strings.HasSuffix(sanitized, ".mp3") {
		sanitized += ".mp3"
	}
	return sanitized
}

// EpisodeFilename returns the destination filename for an episode:
// the sanitized title, or episode_<index>.mp3 when the title is empty.
func EpisodeFilename(title string, index int) string {
	if title == "" {
		return fmt.Sprintf("episode_%d.mp3", index)
	}
	return SanitizeTitle(title)
}
