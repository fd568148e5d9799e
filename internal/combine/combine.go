package combine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"m4bforge/internal/config"
	"m4bforge/internal/ffmpeg"
	"m4bforge/internal/fileutil"
	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/plan"
	"m4bforge/internal/scheduler"
	"m4bforge/internal/spec"
	"m4bforge/internal/textutil"
	"m4bforge/internal/timeline"
)

// Combiner drives the combine pipeline.
type Combiner struct {
	client ffmpeg.Client
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Combiner.
func New(client ffmpeg.Client, cfg *config.Config, logger *slog.Logger) *Combiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{client: client, cfg: cfg, logger: logger.With("component", "combine")}
}

// Options adjusts a single combine run.
type Options struct {
	// Output overrides the spec's output path. When both are empty the
	// output lands next to the working directory, named after the title.
	Output string
	// WorkDir holds intermediate encodes and the concat artifacts. When
	// empty a fresh directory is created under the configured temp dir.
	WorkDir string
}

// Result reports what the combine produced.
type Result struct {
	OutputPath   string
	Chapters     []metadata.Chapter
	Total        int
	StreamCopied int
	Reencoded    int
}

// Run executes the full pipeline for the given spec: probe, lay out the
// chapter timeline, decide stream-copy versus re-encode, run stage one
// encodes concurrently, then concat and mux metadata in one pass each.
// Any probe or encode failure aborts before the output is written.
func (c *Combiner) Run(ctx context.Context, cs *spec.CombineSpec, opts Options) (*Result, error) {
	if cs == nil || len(cs.Entries) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "combine", "", "no input files")
	}

	workDir, cleanup, err := c.ensureWorkDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	sources, params, err := c.probeSources(ctx, cs)
	if err != nil {
		return nil, err
	}

	book := cs.Book
	fillFromTags(&book, sources)

	tl, err := timeline.Build(toTimelineSources(cs, sources), cs.PreserveChapters)
	if err != nil {
		return nil, err
	}

	encodePlan := plan.Decide(params, plan.Profile{
		Codec:      plan.NativeCodec,
		Bitrate:    c.cfg.Audio.Bitrate,
		SampleRate: c.cfg.Audio.SampleRate,
		Channels:   c.cfg.Audio.Channels,
	})

	c.logger.Info("combine plan ready",
		"files", len(cs.Entries),
		"chapters", len(tl.Chapters),
		"reencode", encodePlan.ReencodeCount(),
		"duration", metadata.FormatDuration(tl.Total))

	segments, err := c.runStageOne(ctx, encodePlan, workDir)
	if err != nil {
		return nil, err
	}

	outputPath, err := c.resolveOutput(opts.Output, book)
	if err != nil {
		return nil, err
	}

	combined := filepath.Join(workDir, "combined.m4a")
	if err := c.concat(ctx, segments, workDir, combined); err != nil {
		return nil, err
	}

	coverPath, err := resolveCover(ctx, book, workDir)
	if err != nil {
		c.logger.Warn("cover unavailable", "source", book.CoverSource, "error", err)
		coverPath = ""
	}

	metaPath := filepath.Join(workDir, "metadata.txt")
	if err := writeMetadataFile(metaPath, book, tl.Chapters); err != nil {
		return nil, pipeline.Wrap(pipeline.ErrEncode, "metadata", metaPath, err)
	}

	if err := c.mux(ctx, combined, metaPath, coverPath, outputPath); err != nil {
		return nil, err
	}

	c.logger.Info("combine finished", "output", outputPath, "chapters", len(tl.Chapters))

	return &Result{
		OutputPath:   outputPath,
		Chapters:     tl.Chapters,
		Total:        len(cs.Entries),
		StreamCopied: len(encodePlan.Decisions) - encodePlan.ReencodeCount(),
		Reencoded:    encodePlan.ReencodeCount(),
	}, nil
}

func (c *Combiner) ensureWorkDir(workDir string) (string, func(), error) {
	if workDir != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create work dir: %w", err)
		}
		return workDir, func() {}, nil
	}

	base := c.cfg.TempDir
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	dir, err := os.MkdirTemp(base, "m4bforge-")
	if err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func (c *Combiner) probeSources(ctx context.Context, cs *spec.CombineSpec) ([]ffmpeg.ProbeResult, []plan.SourceParams, error) {
	results := make([]ffmpeg.ProbeResult, 0, len(cs.Entries))
	params := make([]plan.SourceParams, 0, len(cs.Entries))
	for _, entry := range cs.Entries {
		probe, err := c.client.Probe(ctx, entry.File)
		if err != nil {
			return nil, nil, pipeline.Wrap(pipeline.ErrProbe, "probe", entry.File, err)
		}
		results = append(results, probe)
		params = append(params, plan.SourceParams{
			Path:       entry.File,
			Codec:      probe.Codec,
			SampleRate: probe.SampleRate,
			Channels:   probe.Channels,
		})
	}
	return results, params, nil
}

func toTimelineSources(cs *spec.CombineSpec, probes []ffmpeg.ProbeResult) []timeline.Source {
	sources := make([]timeline.Source, 0, len(cs.Entries))
	for i, entry := range cs.Entries {
		sources = append(sources, timeline.Source{
			Path:     entry.File,
			Title:    entry.Title,
			Duration: probes[i].Duration,
			Chapters: probes[i].Chapters,
		})
	}
	return sources
}

// fillFromTags backfills absent book metadata from the first source that
// carries the corresponding container tag.
func fillFromTags(book *metadata.Book, probes []ffmpeg.ProbeResult) {
	for _, probe := range probes {
		if book.Title == "" {
			if album := probe.Tag("album"); album != "" {
				book.Title = album
			} else if title := probe.Tag("title"); title != "" {
				book.Title = title
			}
		}
		if book.Author == "" {
			if artist := probe.Tag("artist"); artist != "" {
				book.Author = artist
			} else if albumArtist := probe.Tag("album_artist"); albumArtist != "" {
				book.Author = albumArtist
			}
		}
		if book.Narrator == "" {
			book.Narrator = probe.Tag("composer")
		}
		if book.Genre == "" {
			book.Genre = probe.Tag("genre")
		}
		if book.Year == 0 {
			if year, err := strconv.Atoi(strings.TrimSpace(probe.Tag("date"))); err == nil {
				book.Year = year
			}
		}
		if book.Description == "" {
			book.Description = probe.Tag("comment")
		}
	}
}

// runStageOne re-encodes every non-copyable source into the work dir and
// returns the ordered segment paths feeding the concat step.
func (c *Combiner) runStageOne(ctx context.Context, encodePlan plan.Plan, workDir string) ([]string, error) {
	segments := make([]string, len(encodePlan.Decisions))
	var tasks []scheduler.Task

	for i, decision := range encodePlan.Decisions {
		if decision.StreamCopy {
			segments[i] = decision.Path
			continue
		}
		slot := i
		src := decision.Path
		dst := filepath.Join(workDir, uuid.NewString()+".m4a")
		tasks = append(tasks, scheduler.Task{
			Key: src,
			Run: func(taskCtx context.Context) (string, error) {
				args := encodeArgs(src, dst, encodePlan.Target)
				if err := c.client.Invoke(taskCtx, args); err != nil {
					return "", pipeline.Wrap(pipeline.ErrEncode, "encode", src, err)
				}
				segments[slot] = dst
				return dst, nil
			},
		})
	}

	outcomes := scheduler.Run(ctx, tasks, scheduler.Options{
		Concurrency: c.cfg.Jobs,
		OnOutcome: func(outcome scheduler.Outcome) {
			if outcome.Err != nil {
				c.logger.Error("encode failed", "file", outcome.Key, "error", outcome.Err)
				return
			}
			c.logger.Info("encoded", "file", outcome.Key, "elapsed", outcome.Elapsed.Round(10*time.Millisecond))
		},
	})

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			return nil, outcome.Err
		}
	}
	return segments, nil
}

func encodeArgs(src, dst string, target plan.Profile) []string {
	return []string{
		"-y", "-nostdin",
		"-i", src,
		"-vn",
		"-c:a", target.Codec,
		"-b:a", target.Bitrate,
		"-ar", strconv.Itoa(target.SampleRate),
		"-ac", strconv.Itoa(target.Channels),
		dst,
	}
}

func (c *Combiner) concat(ctx context.Context, segments []string, workDir, combined string) error {
	listPath := filepath.Join(workDir, "concat.txt")
	if err := writeConcatList(listPath, segments); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "concat", listPath, err)
	}

	args := []string{
		"-y", "-nostdin",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		combined,
	}
	if err := c.client.Invoke(ctx, args); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "concat", combined, err)
	}
	return nil
}

func (c *Combiner) mux(ctx context.Context, combined, metaPath, coverPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"-y", "-nostdin",
		"-i", combined,
		"-i", metaPath,
	}
	if coverPath != "" {
		args = append(args,
			"-i", coverPath,
			"-map", "0:a",
			"-map", "2:v",
			"-c:v", "copy",
			"-disposition:v:0", "attached_pic",
		)
	} else {
		args = append(args, "-map", "0:a")
	}
	args = append(args,
		"-map_metadata", "1",
		"-c:a", "copy",
		outputPath,
	)
	if err := c.client.Invoke(ctx, args); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "mux", outputPath, err)
	}
	if err := fileutil.NonEmptyFile(outputPath); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "mux", outputPath, err)
	}
	return nil
}

func (c *Combiner) resolveOutput(override string, book metadata.Book) (string, error) {
	path := override
	if path == "" {
		path = book.OutputPath
	}
	if path == "" {
		title := book.Title
		if title == "" {
			title = "audiobook"
		}
		path = textutil.SanitizeFileName(title) + ".m4b"
	}
	if !strings.EqualFold(filepath.Ext(path), ".m4b") && !strings.EqualFold(filepath.Ext(path), ".m4a") {
		path += ".m4b"
	}
	return path, nil
}
