package metadata

import (
	"fmt"
	"strings"
	"time"
)

// Book describes the audiobook-level metadata attached to a combined
// container. Year of 0 means unset; CoverSource may be a local path, an
// http(s) URL, or empty for none.
type Book struct {
	Title       string
	Author      string
	Narrator    string
	Genre       string
	Year        int
	Description string
	CoverSource string
	OutputPath  string
}

// CoverIsURL reports whether the cover source is a remote URL rather than a
// local file path.
func (b Book) CoverIsURL() bool {
	return strings.HasPrefix(b.CoverSource, "http://") || strings.HasPrefix(b.CoverSource, "https://")
}

// Chapter is one named time range inside a container. Start is the offset
// from the container start; entries in a timeline are ordered and contiguous.
type Chapter struct {
	Index    int
	Title    string
	Source   string
	Start    time.Duration
	Duration time.Duration
}

// End returns the chapter's end offset.
func (c Chapter) End() time.Duration {
	return c.Start + c.Duration
}

// EmbeddedChapter is chapter data read out of an existing container during a
// probe. Start and End are offsets within that container's own timeline.
type EmbeddedChapter struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// FormatDuration renders a duration the way run summaries expect it:
// "45s", "3m 20s", or "1h 2m 3s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
	}
}
