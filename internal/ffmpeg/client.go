package ffmpeg

import (
	"context"
	"time"

	"m4bforge/internal/metadata"
)

// ProbeResult carries the source properties the pipelines decide on.
type ProbeResult struct {
	Codec      string
	SampleRate int
	Channels   int
	Duration   time.Duration
	Tags       map[string]string
	Chapters   []metadata.EmbeddedChapter
}

// Tag returns the named container tag, or "" when absent.
func (r ProbeResult) Tag(name string) string {
	if r.Tags == nil {
		return ""
	}
	return r.Tags[name]
}

// Client defines the two operations the pipelines need from the external
// encoder: a property probe and a blocking command invocation.
type Client interface {
	Probe(ctx context.Context, path string) (ProbeResult, error)
	Invoke(ctx context.Context, args []string) error
}
