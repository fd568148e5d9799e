package split

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"m4bforge/internal/config"
	"m4bforge/internal/ffmpeg"
	"m4bforge/internal/fileutil"
	"m4bforge/internal/metadata"
	"m4bforge/internal/naming"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/scheduler"
	"m4bforge/internal/spec"
)

// codecFor maps an output format to the encoder ffmpeg should use, and
// nativeCodecFor to the probed codec name that allows a plain stream copy.
var codecFor = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"m4b":  "aac",
	"flac": "flac",
	"ogg":  "libvorbis",
	"wav":  "pcm_s16le",
}

var nativeCodecFor = map[string]string{
	"mp3":  "mp3",
	"m4a":  "aac",
	"m4b":  "aac",
	"flac": "flac",
	"ogg":  "vorbis",
}

// Splitter drives the split pipeline.
type Splitter struct {
	client ffmpeg.Client
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Splitter.
func New(client ffmpeg.Client, cfg *config.Config, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{client: client, cfg: cfg, logger: logger.With("component", "split")}
}

// Options adjusts a single split run.
type Options struct {
	OutputDir string
	Format    string
	Template  string
}

// Result aggregates the outcome across all input containers.
type Result struct {
	Report  pipeline.Report
	PerFile map[string]pipeline.Report
	Outputs []string
}

// Run splits every input container. Containers are processed in order;
// chapter extractions within one container run concurrently. A failed
// chapter is reported but does not stop the remaining work.
func (s *Splitter) Run(ctx context.Context, inputs []string, opts Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "split", "", "no input files")
	}

	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(opts.Format)), ".")
	if format == "" {
		format = s.cfg.Split.Format
	}
	if _, ok := codecFor[format]; !ok {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "split", format, "unsupported output format")
	}

	template := opts.Template
	if template == "" {
		template = s.cfg.Split.Template
	}
	if template == "" {
		template = naming.DefaultSplitTemplate
	}
	// An unknown placeholder fails every chapter the same way, so reject
	// the template up front instead of once per chapter.
	if _, err := naming.Resolve(template, naming.Context{
		ChapterNum:   1,
		ChapterTitle: "Chapter",
		SourcePath:   inputs[0],
		Ext:          format,
	}); err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	result := &Result{PerFile: make(map[string]pipeline.Report)}
	for _, input := range inputs {
		report, outputs := s.splitOne(ctx, input, outputDir, format, template)
		result.PerFile[input] = report
		result.Report.Merge(report)
		result.Outputs = append(result.Outputs, outputs...)
	}

	s.logger.Info("split finished", "files", len(inputs), "summary", result.Report.Summary())
	return result, nil
}

func (s *Splitter) splitOne(ctx context.Context, input, outputDir, format, template string) (pipeline.Report, []string) {
	if !spec.IsContainer(input) {
		return failedReport(input, pipeline.Wrapf(pipeline.ErrSpecValidation, "split", input, "not an audiobook container")), nil
	}

	probe, err := s.client.Probe(ctx, input)
	if err != nil {
		return failedReport(input, pipeline.Wrap(pipeline.ErrProbe, "probe", input, err)), nil
	}

	book := bookFromTags(input, probe)
	chapters := chapterList(input, probe)

	tasks := make([]scheduler.Task, 0, len(chapters))
	outputs := make([]string, len(chapters))
	streamCopy := probe.Codec == nativeCodecFor[format]

	var report pipeline.Report
	report.Total = len(chapters)

	for i, chapter := range chapters {
		rel, err := naming.Resolve(template, naming.Context{
			Book:         book,
			ChapterNum:   chapter.Index,
			ChapterTitle: chapter.Title,
			SourcePath:   input,
			Duration:     chapter.Duration,
			Ext:          format,
		})
		if err != nil {
			report.Failures = append(report.Failures, pipeline.Failure{
				Key:     taskKey(input, chapter.Index),
				Subject: chapter.Title,
				Err:     err,
			})
			continue
		}

		slot := i
		ch := chapter
		dst := filepath.Join(outputDir, rel)
		tasks = append(tasks, scheduler.Task{
			Key: taskKey(input, ch.Index),
			Run: func(taskCtx context.Context) (string, error) {
				if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
					return "", fmt.Errorf("create output dir: %w", err)
				}
				args := extractArgs(input, dst, ch, format, streamCopy, s.cfg.Audio)
				if err := s.client.Invoke(taskCtx, args); err != nil {
					return "", pipeline.Wrap(pipeline.ErrEncode, "extract", dst, err)
				}
				if err := fileutil.NonEmptyFile(dst); err != nil {
					return "", pipeline.Wrap(pipeline.ErrEncode, "extract", dst, err)
				}
				outputs[slot] = dst
				return dst, nil
			},
		})
	}

	outcomes := scheduler.Run(ctx, tasks, scheduler.Options{
		Concurrency: s.cfg.Jobs,
		OnOutcome: func(outcome scheduler.Outcome) {
			if outcome.Err != nil {
				s.logger.Error("chapter failed", "chapter", outcome.Key, "error", outcome.Err)
				return
			}
			s.logger.Debug("chapter written", "chapter", outcome.Key, "output", outcome.Output)
		},
	})

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			report.Failures = append(report.Failures, pipeline.Failure{
				Key:     outcome.Key,
				Subject: outcome.Key,
				Err:     outcome.Err,
			})
			continue
		}
		report.Succeeded++
	}

	produced := outputs[:0]
	for _, output := range outputs {
		if output != "" {
			produced = append(produced, output)
		}
	}
	return report, produced
}

// chapterList returns the embedded chapters or, when the container has
// none, a single chapter spanning the whole file.
func chapterList(input string, probe ffmpeg.ProbeResult) []metadata.Chapter {
	if len(probe.Chapters) == 0 {
		title := strings.TrimSpace(probe.Tag("title"))
		if title == "" {
			title = metadata.DeriveTitle(input, 1, "")
		}
		return []metadata.Chapter{{
			Index:    1,
			Title:    title,
			Source:   input,
			Start:    0,
			Duration: probe.Duration,
		}}
	}

	chapters := make([]metadata.Chapter, 0, len(probe.Chapters))
	for i, embedded := range probe.Chapters {
		title := strings.TrimSpace(embedded.Title)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, metadata.Chapter{
			Index:    i + 1,
			Title:    title,
			Source:   input,
			Start:    embedded.Start,
			Duration: embedded.End - embedded.Start,
		})
	}
	return chapters
}

func bookFromTags(input string, probe ffmpeg.ProbeResult) metadata.Book {
	book := metadata.Book{
		Title:    probe.Tag("album"),
		Author:   probe.Tag("artist"),
		Narrator: probe.Tag("composer"),
		Genre:    probe.Tag("genre"),
	}
	if book.Title == "" {
		book.Title = probe.Tag("title")
	}
	if book.Title == "" {
		book.Title = metadata.DeriveTitle(input, 1, "")
	}
	if year, err := strconv.Atoi(strings.TrimSpace(probe.Tag("date"))); err == nil {
		book.Year = year
	}
	return book
}

func extractArgs(src, dst string, chapter metadata.Chapter, format string, streamCopy bool, audio config.Audio) []string {
	args := []string{
		"-y", "-nostdin",
		"-i", src,
		"-ss", formatSeconds(chapter.Start.Seconds()),
		"-to", formatSeconds(chapter.End().Seconds()),
		"-vn",
	}
	if streamCopy {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args, "-c:a", codecFor[format])
		if format != "wav" && format != "flac" {
			args = append(args, "-b:a", audio.Bitrate)
		}
	}
	return append(args, dst)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func taskKey(input string, index int) string {
	return fmt.Sprintf("%s#%02d", filepath.Base(input), index)
}

func failedReport(input string, err error) pipeline.Report {
	return pipeline.Report{
		Total: 1,
		Failures: []pipeline.Failure{{
			Key:     input,
			Subject: input,
			Err:     err,
		}},
	}
}
