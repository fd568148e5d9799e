package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"m4bforge/internal/metadata"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*CLI)

// WithBinaries overrides the default ffmpeg/ffprobe binary names.
func WithBinaries(ffmpegBin, ffprobeBin string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(ffmpegBin) != "" {
			c.ffmpeg = ffmpegBin
		}
		if strings.TrimSpace(ffprobeBin) != "" {
			c.ffprobe = ffprobeBin
		}
	}
}

// CLI invokes ffmpeg and ffprobe as subprocesses.
type CLI struct {
	ffmpeg  string
	ffprobe string
}

// NewCLI constructs a CLI client using binaries resolved from PATH.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{ffmpeg: "ffmpeg", ffprobe: "ffprobe"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// probePayload mirrors the ffprobe JSON document shape.
type probePayload struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Chapters []struct {
		StartTime string            `json:"start_time"`
		EndTime   string            `json:"end_time"`
		Tags      map[string]string `json:"tags"`
	} `json:"chapters"`
}

// Probe executes ffprobe against path and decodes the JSON response.
func (c *CLI) Probe(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, errors.New("ffprobe: empty path")
	}

	cmd := commandContext(ctx, c.ffprobe,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams", "-show_chapters",
		"-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe %s: %w%s", path, err, exitDetail(err))
	}

	var payload probePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse %s: %w", path, err)
	}
	return decodeProbe(payload), nil
}

func decodeProbe(payload probePayload) ProbeResult {
	result := ProbeResult{
		Duration: secondsToDuration(payload.Format.Duration),
		Tags:     payload.Format.Tags,
	}
	for _, stream := range payload.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		result.Codec = stream.CodecName
		result.SampleRate = parseInt(stream.SampleRate)
		result.Channels = stream.Channels
		break
	}
	for _, chapter := range payload.Chapters {
		result.Chapters = append(result.Chapters, metadata.EmbeddedChapter{
			Title: chapter.Tags["title"],
			Start: secondsToDuration(chapter.StartTime),
			End:   secondsToDuration(chapter.EndTime),
		})
	}
	return result
}

// Invoke runs ffmpeg with the given arguments and waits for it to exit. A
// non-zero exit surfaces the trimmed stderr tail in the returned error.
func (c *CLI) Invoke(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg: no arguments")
	}
	cmd := commandContext(ctx, c.ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, stderrTail(output))
	}
	return nil
}

// stderrTail keeps the last few lines of encoder output; ffmpeg prints the
// actionable diagnostic at the end of a long banner.
func stderrTail(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func exitDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return ": " + stderrTail(exitErr.Stderr)
	}
	return ""
}

func secondsToDuration(value string) time.Duration {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}

var _ Client = (*CLI)(nil)
