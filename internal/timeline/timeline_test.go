package timeline

import (
	"errors"
	"testing"
	"time"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
)

func TestBuildCollapsedChapters(t *testing.T) {
	sources := []Source{
		{Path: "a.m4b", Title: "One", Duration: 60 * time.Second},
		{Path: "b.m4b", Title: "Two", Duration: 120 * time.Second},
		{Path: "c.m4b", Title: "Three", Duration: 90 * time.Second},
	}

	tl, err := Build(sources, false)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(tl.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(tl.Chapters))
	}

	wantStarts := []time.Duration{0, 60 * time.Second, 180 * time.Second}
	for i, chapter := range tl.Chapters {
		if chapter.Start != wantStarts[i] {
			t.Errorf("chapter %d start = %v, want %v", i+1, chapter.Start, wantStarts[i])
		}
		if chapter.Index != i+1 {
			t.Errorf("chapter %d index = %d", i+1, chapter.Index)
		}
	}
	if tl.Total != 270*time.Second {
		t.Fatalf("total = %v, want 270s", tl.Total)
	}
}

func TestBuildPreservesEmbeddedChapters(t *testing.T) {
	sources := []Source{
		{
			Path:     "a.m4b",
			Title:    "Book One",
			Duration: 100 * time.Second,
			Chapters: []metadata.EmbeddedChapter{
				{Title: "Intro", Start: 0, End: 30 * time.Second},
				{Title: "", Start: 30 * time.Second, End: 100 * time.Second},
			},
		},
		{Path: "b.m4b", Title: "Book Two", Duration: 50 * time.Second},
	}

	tl, err := Build(sources, true)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(tl.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(tl.Chapters))
	}

	first := tl.Chapters[0]
	if first.Title != "Book One - Intro" || first.Start != 0 || first.Duration != 30*time.Second {
		t.Fatalf("unexpected first chapter: %+v", first)
	}
	second := tl.Chapters[1]
	if second.Title != "Book One - 2" {
		t.Fatalf("expected synthesized title for empty embedded title, got %q", second.Title)
	}
	if second.Start != 30*time.Second || second.Duration != 70*time.Second {
		t.Fatalf("unexpected second chapter offsets: %+v", second)
	}
	third := tl.Chapters[2]
	if third.Start != 100*time.Second || third.Title != "Book Two" {
		t.Fatalf("source without embedded chapters should collapse: %+v", third)
	}
	if tl.Total != 150*time.Second {
		t.Fatalf("total = %v, want 150s", tl.Total)
	}
}

func TestBuildOffsetsNonDecreasing(t *testing.T) {
	sources := []Source{
		{Path: "a.m4b", Title: "A", Duration: 10 * time.Second},
		{Path: "b.m4b", Title: "B", Duration: 20 * time.Second, Chapters: []metadata.EmbeddedChapter{
			{Title: "x", Start: 0, End: 5 * time.Second},
			{Title: "y", Start: 5 * time.Second, End: 20 * time.Second},
		}},
		{Path: "c.m4b", Title: "C", Duration: 5 * time.Second},
	}

	tl, err := Build(sources, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(tl.Chapters); i++ {
		prev, cur := tl.Chapters[i-1], tl.Chapters[i]
		if cur.Start < prev.Start {
			t.Fatalf("offsets decreased at %d: %v -> %v", i, prev.Start, cur.Start)
		}
		if cur.Start != prev.End() {
			t.Fatalf("chapter %d not contiguous: prev end %v, start %v", i, prev.End(), cur.Start)
		}
	}
	if tl.Total != 35*time.Second {
		t.Fatalf("total = %v", tl.Total)
	}
}

func TestBuildFailsOnUnknownDuration(t *testing.T) {
	_, err := Build([]Source{{Path: "broken.m4b", Title: "X"}}, false)
	if !errors.Is(err, pipeline.ErrProbe) {
		t.Fatalf("expected probe error, got %v", err)
	}
}
