package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error

	if strings.TrimSpace(c.TempDir) != "" {
		if c.TempDir, err = expandPath(c.TempDir); err != nil {
			return fmt.Errorf("temp_dir: %w", err)
		}
	}

	if strings.TrimSpace(c.HistoryPath) == "" {
		c.HistoryPath = defaultHistoryPath
	}
	if c.HistoryPath, err = expandPath(c.HistoryPath); err != nil {
		return fmt.Errorf("history_path: %w", err)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}

	if c.Jobs < 1 {
		c.Jobs = defaultJobs
	}

	if strings.TrimSpace(c.Encoder.FFmpeg) == "" {
		c.Encoder.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Encoder.FFprobe) == "" {
		c.Encoder.FFprobe = defaultFFprobeBinary
	}

	if strings.TrimSpace(c.Audio.Bitrate) == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.Channels <= 0 {
		c.Audio.Channels = defaultChannels
	}

	if strings.TrimSpace(c.Split.Format) == "" {
		c.Split.Format = defaultSplitFormat
	}
	c.Split.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Split.Format), "."))
	if strings.TrimSpace(c.Split.Template) == "" {
		c.Split.Template = defaultSplitTemplate
	}
	return nil
}
