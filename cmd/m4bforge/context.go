package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"m4bforge/internal/config"
	"m4bforge/internal/ffmpeg"
	"m4bforge/internal/history"
	"m4bforge/internal/logging"
)

type commandContext struct {
	configFlag *string
	jobsFlag   *int

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jobsFlag *int) *commandContext {
	return &commandContext{configFlag: configFlag, jobsFlag: jobsFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.jobsFlag != nil && *c.jobsFlag > 0 {
			cfg.Jobs = *c.jobsFlag
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger = slog.Default()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) client() (ffmpeg.Client, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	return ffmpeg.NewCLI(ffmpeg.WithBinaries(cfg.Encoder.FFmpeg, cfg.Encoder.FFprobe)), cfg, nil
}

// recordRun persists the run outcome in the history database. History is
// best effort; failures only produce a warning.
func (c *commandContext) recordRun(ctx context.Context, command string, started time.Time, succeeded, failed int, detail string) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		c.ensureLogger().Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	run := history.Run{
		ID:         uuid.NewString(),
		Command:    command,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Succeeded:  succeeded,
		Failed:     failed,
		Detail:     detail,
	}
	if err := store.Record(ctx, run); err != nil {
		c.ensureLogger().Warn("history write failed", "error", err)
	}
}
