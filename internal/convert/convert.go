package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"m4bforge/internal/config"
	"m4bforge/internal/ffmpeg"
	"m4bforge/internal/fileutil"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/plan"
	"m4bforge/internal/scheduler"
	"m4bforge/internal/textutil"
)

// supportedExtensions are the inputs the converter picks up when walking
// a directory.
var supportedExtensions = map[string]struct{}{
	".mp3": {}, ".flac": {}, ".m4a": {}, ".aac": {}, ".ogg": {}, ".wav": {}, ".wma": {},
}

// Converter drives the convert pipeline.
type Converter struct {
	client ffmpeg.Client
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Converter.
func New(client ffmpeg.Client, cfg *config.Config, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{client: client, cfg: cfg, logger: logger.With("component", "convert")}
}

// Options adjusts a single convert run.
type Options struct {
	OutputDir string
	// BaseInputPath anchors the directory structure mirrored under
	// OutputDir. Empty means the input root itself; every input must sit
	// below it.
	BaseInputPath string
	// Flat drops the input directory structure and writes every output
	// directly into OutputDir.
	Flat bool
	// Overwrite re-converts inputs whose output already exists.
	Overwrite bool
	// ProgressWriter, when set, receives a progress bar that advances as
	// conversions finish.
	ProgressWriter io.Writer
}

// Result aggregates the outcome of a convert run.
type Result struct {
	Report  pipeline.Report
	Skipped int
	Outputs []string
}

// Discover walks root and returns every supported audio file in natural
// order. A single-file root returns just that file.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		if !isSupported(root) {
			return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "discover", root, "unsupported audio format")
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if isSupported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input dir: %w", err)
	}
	textutil.SortNatural(files, filepath.Base)
	return files, nil
}

func isSupported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Run converts every file found under root. Existing outputs are skipped
// unless Overwrite is set; individual failures are reported and the rest
// of the batch continues.
func (c *Converter) Run(ctx context.Context, root string, opts Options) (*Result, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "convert", root, "no supported audio files found")
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	result := &Result{}
	outputs := make([]string, len(files))
	var tasks []scheduler.Task

	for i, file := range files {
		dst, err := c.outputPath(root, file, outputDir, opts)
		if err != nil {
			result.Report.Total++
			result.Report.Failures = append(result.Report.Failures, pipeline.Failure{Key: file, Subject: file, Err: err})
			continue
		}
		if !opts.Overwrite {
			if _, statErr := os.Stat(dst); statErr == nil {
				c.logger.Info("skipping existing output", "file", file, "output", dst)
				result.Skipped++
				continue
			}
		}

		result.Report.Total++
		slot := i
		src := file
		tasks = append(tasks, scheduler.Task{
			Key: src,
			Run: func(taskCtx context.Context) (string, error) {
				if err := c.convertOne(taskCtx, src, dst); err != nil {
					return "", err
				}
				outputs[slot] = dst
				return dst, nil
			},
		})
	}

	var bar *progressbar.ProgressBar
	if opts.ProgressWriter != nil && len(tasks) > 0 {
		bar = progressbar.NewOptions(len(tasks),
			progressbar.OptionSetWriter(opts.ProgressWriter),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	outcomes := scheduler.Run(ctx, tasks, scheduler.Options{
		Concurrency: c.cfg.Jobs,
		OnOutcome: func(outcome scheduler.Outcome) {
			if bar != nil {
				_ = bar.Add(1)
			}
			if outcome.Err != nil {
				c.logger.Error("conversion failed", "file", outcome.Key, "error", outcome.Err)
				return
			}
			c.logger.Info("converted", "file", outcome.Key, "output", outcome.Output)
		},
	})

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.Report.Failures = append(result.Report.Failures, pipeline.Failure{
				Key:     outcome.Key,
				Subject: outcome.Key,
				Err:     outcome.Err,
			})
			continue
		}
		result.Report.Succeeded++
	}

	for _, output := range outputs {
		if output != "" {
			result.Outputs = append(result.Outputs, output)
		}
	}

	c.logger.Info("convert finished", "summary", result.Report.Summary(), "skipped", result.Skipped)
	return result, nil
}

func (c *Converter) convertOne(ctx context.Context, src, dst string) error {
	probe, err := c.client.Probe(ctx, src)
	if err != nil {
		return pipeline.Wrap(pipeline.ErrProbe, "probe", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := []string{"-y", "-nostdin", "-i", src, "-vn"}
	if probe.Codec == plan.NativeCodec {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args,
			"-c:a", plan.NativeCodec,
			"-b:a", c.cfg.Audio.Bitrate,
			"-ar", strconv.Itoa(c.cfg.Audio.SampleRate),
			"-ac", strconv.Itoa(c.cfg.Audio.Channels),
		)
	}
	args = append(args, dst)

	if err := c.client.Invoke(ctx, args); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "convert", src, err)
	}
	if err := fileutil.NonEmptyFile(dst); err != nil {
		return pipeline.Wrap(pipeline.ErrEncode, "convert", src, err)
	}
	return nil
}

// outputPath maps src to its .m4b destination. With Flat set every output
// lands directly in outputDir; otherwise the directory structure below the
// anchor (BaseInputPath when given, the input root otherwise) is preserved.
func (c *Converter) outputPath(root, src, outputDir string, opts Options) (string, error) {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".m4b"
	if opts.Flat {
		return filepath.Join(outputDir, base), nil
	}

	anchor := strings.TrimSpace(opts.BaseInputPath)
	if anchor == "" {
		rootInfo, err := os.Stat(root)
		if err != nil {
			return "", fmt.Errorf("stat input: %w", err)
		}
		if !rootInfo.IsDir() {
			return filepath.Join(outputDir, base), nil
		}
		anchor = root
	}

	rel, err := filepath.Rel(anchor, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("relativize output: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", pipeline.Wrapf(pipeline.ErrSpecValidation, "convert", src, "outside base input path %s", anchor)
	}
	if rel == "." {
		return filepath.Join(outputDir, base), nil
	}
	return filepath.Join(outputDir, rel, base), nil
}
