package timeline

import (
	"fmt"
	"strings"
	"time"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
)

// Source is one ordered input to the combined container. Chapters carries
// any embedded chapter structure found during the probe; Title is the
// declared or derived chapter title for the source as a whole.
type Source struct {
	Path     string
	Title    string
	Duration time.Duration
	Chapters []metadata.EmbeddedChapter
}

// Timeline is the resolved chapter layout of the combined output.
type Timeline struct {
	Chapters []metadata.Chapter
	Total    time.Duration
}

// Build lays the sources out back to back. When preserve is false, or a
// source has no embedded chapters, the source becomes a single chapter.
// When preserve is true each embedded chapter becomes its own entry with
// offsets shifted into the combined timeline; empty embedded titles fall
// back to "<source title> - <n>". A source without a usable duration fails
// the whole build.
func Build(sources []Source, preserve bool) (Timeline, error) {
	var tl Timeline
	cursor := time.Duration(0)

	for _, src := range sources {
		if src.Duration <= 0 {
			return Timeline{}, pipeline.Wrapf(pipeline.ErrProbe, "timeline", src.Path, "duration unavailable")
		}

		if preserve && len(src.Chapters) > 0 {
			for i, embedded := range src.Chapters {
				title := strings.TrimSpace(embedded.Title)
				if title == "" {
					title = fmt.Sprintf("%s - %d", src.Title, i+1)
				} else {
					title = fmt.Sprintf("%s - %s", src.Title, title)
				}
				tl.Chapters = append(tl.Chapters, metadata.Chapter{
					Index:    len(tl.Chapters) + 1,
					Title:    title,
					Source:   src.Path,
					Start:    cursor + embedded.Start,
					Duration: embedded.End - embedded.Start,
				})
			}
		} else {
			tl.Chapters = append(tl.Chapters, metadata.Chapter{
				Index:    len(tl.Chapters) + 1,
				Title:    src.Title,
				Source:   src.Path,
				Start:    cursor,
				Duration: src.Duration,
			})
		}

		cursor += src.Duration
	}

	tl.Total = cursor
	return tl, nil
}
