package split

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/testsupport"
)

func TestRunExtractsChaptersWithTemplate(t *testing.T) {
	client := testsupport.NewStubClient()
	probe := testsupport.AudioProbe("aac", 230*time.Second)
	probe.Chapters = []metadata.EmbeddedChapter{
		{Title: "Intro", Start: 0, End: 30 * time.Second},
		{Title: "Body", Start: 30 * time.Second, End: 230 * time.Second},
	}
	client.SetProbe("/in/book.m4b", probe)

	splitter := New(client, testsupport.NewConfig(t), nil)
	outDir := t.TempDir()

	result, err := splitter.Run(context.Background(), []string{"/in/book.m4b"}, Options{
		OutputDir: outDir,
		Format:    "mp3",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Report.AllSucceeded() || result.Report.Total != 2 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}

	want := []string{
		filepath.Join(outDir, "01 - Intro.mp3"),
		filepath.Join(outDir, "02 - Body.mp3"),
	}
	for _, path := range want {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected output %s: %v", path, err)
		}
	}
}

func TestRunStreamCopiesNativeFormat(t *testing.T) {
	client := testsupport.NewStubClient()
	probe := testsupport.AudioProbe("aac", 100*time.Second)
	probe.Chapters = []metadata.EmbeddedChapter{
		{Title: "One", Start: 0, End: 100 * time.Second},
	}
	client.SetProbe("/in/book.m4b", probe)

	splitter := New(client, testsupport.NewConfig(t), nil)
	_, err := splitter.Run(context.Background(), []string{"/in/book.m4b"}, Options{
		OutputDir: t.TempDir(),
		Format:    "m4a",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	invocations := client.Invocations()
	if len(invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(invocations))
	}
	joined := strings.Join(invocations[0], " ")
	if !strings.Contains(joined, "-c:a copy") {
		t.Fatalf("expected stream copy args: %v", invocations[0])
	}
	if !strings.Contains(joined, "-ss 0.000") || !strings.Contains(joined, "-to 100.000") {
		t.Fatalf("unexpected trim window: %v", invocations[0])
	}
}

func TestRunSynthesizesWholeFileChapter(t *testing.T) {
	client := testsupport.NewStubClient()
	probe := testsupport.AudioProbe("aac", 90*time.Second)
	probe.Tags = map[string]string{"title": "Solo Story"}
	client.SetProbe("/in/solo.m4a", probe)

	splitter := New(client, testsupport.NewConfig(t), nil)
	outDir := t.TempDir()
	result, err := splitter.Run(context.Background(), []string{"/in/solo.m4a"}, Options{
		OutputDir: outDir,
		Format:    "mp3",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Report.Total != 1 || result.Report.Succeeded != 1 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
	if _, err := os.Stat(filepath.Join(outDir, "01 - Solo Story.mp3")); err != nil {
		t.Fatalf("expected whole-file output: %v", err)
	}
}

func TestRunContinuesAfterChapterFailure(t *testing.T) {
	client := testsupport.NewStubClient()
	probe := testsupport.AudioProbe("aac", 60*time.Second)
	probe.Chapters = []metadata.EmbeddedChapter{
		{Title: "Good", Start: 0, End: 30 * time.Second},
		{Title: "Bad", Start: 30 * time.Second, End: 60 * time.Second},
	}
	client.SetProbe("/in/book.m4b", probe)
	client.FailInvocations(func(args []string) error {
		for _, arg := range args {
			if strings.Contains(arg, "Bad") {
				return errors.New("encoder exploded")
			}
		}
		return nil
	})

	splitter := New(client, testsupport.NewConfig(t), nil)
	result, err := splitter.Run(context.Background(), []string{"/in/book.m4b"}, Options{
		OutputDir: t.TempDir(),
		Format:    "mp3",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Report.Succeeded != 1 || result.Report.Failed() != 1 {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
	if result.Report.Summary() != "1 of 2 succeeded" {
		t.Fatalf("unexpected summary: %q", result.Report.Summary())
	}
	if !errors.Is(result.Report.Failures[0].Err, pipeline.ErrEncode) {
		t.Fatalf("failure not tagged as encode error: %v", result.Report.Failures[0].Err)
	}
}

func TestRunRejectsNonContainerInput(t *testing.T) {
	splitter := New(testsupport.NewStubClient(), testsupport.NewConfig(t), nil)
	result, err := splitter.Run(context.Background(), []string{"/in/song.mp3"}, Options{Format: "mp3"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Report.Failed() != 1 {
		t.Fatalf("expected failure for non-container input: %+v", result.Report)
	}
	if !errors.Is(result.Report.Failures[0].Err, pipeline.ErrSpecValidation) {
		t.Fatalf("unexpected failure marker: %v", result.Report.Failures[0].Err)
	}
}

func TestRunRejectsUnknownPlaceholderBeforeAnyWork(t *testing.T) {
	client := testsupport.NewStubClient()
	splitter := New(client, testsupport.NewConfig(t), nil)
	_, err := splitter.Run(context.Background(), []string{"/in/a.m4b"}, Options{
		Format:   "mp3",
		Template: "{bogus}.{ext}",
	})
	if !errors.Is(err, pipeline.ErrTemplate) {
		t.Fatalf("expected template error, got %v", err)
	}
	if len(client.Invocations()) != 0 {
		t.Fatalf("no extraction expected for a bad template")
	}
}

func TestRunRejectsUnsupportedFormat(t *testing.T) {
	splitter := New(testsupport.NewStubClient(), testsupport.NewConfig(t), nil)
	if _, err := splitter.Run(context.Background(), []string{"/in/a.m4b"}, Options{Format: "wma"}); !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
