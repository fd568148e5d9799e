// Package testsupport provides shared fakes and fixtures for pipeline tests.
package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"m4bforge/internal/config"
	"m4bforge/internal/ffmpeg"
)

// StubClient is an in-memory ffmpeg.Client. Probe results are keyed by
// path; invocations are recorded and succeed unless a matcher fails them.
type StubClient struct {
	mu          sync.Mutex
	probes      map[string]ffmpeg.ProbeResult
	probeErrs   map[string]error
	invocations [][]string
	invokeHook  func(args []string) error
}

// NewStubClient returns an empty stub that fails every probe.
func NewStubClient() *StubClient {
	return &StubClient{
		probes:    make(map[string]ffmpeg.ProbeResult),
		probeErrs: make(map[string]error),
	}
}

// SetProbe registers the result returned when path is probed.
func (c *StubClient) SetProbe(path string, result ffmpeg.ProbeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[path] = result
}

// SetProbeError makes probing path fail with err.
func (c *StubClient) SetProbeError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probeErrs[path] = err
}

// FailInvocations installs a hook consulted before each invocation; a
// non-nil return fails that invocation.
func (c *StubClient) FailInvocations(hook func(args []string) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invokeHook = hook
}

// Invocations returns a copy of every argument list passed to Invoke.
func (c *StubClient) Invocations() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]string, len(c.invocations))
	for i, args := range c.invocations {
		out[i] = append([]string(nil), args...)
	}
	return out
}

// Probe implements ffmpeg.Client.
func (c *StubClient) Probe(_ context.Context, path string) (ffmpeg.ProbeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.probeErrs[path]; ok {
		return ffmpeg.ProbeResult{}, err
	}
	if result, ok := c.probes[path]; ok {
		return result, nil
	}
	return ffmpeg.ProbeResult{}, fmt.Errorf("no probe registered for %s", path)
}

// Invoke implements ffmpeg.Client. The output path heuristic creates the
// last argument as an empty file so downstream existence checks pass.
func (c *StubClient) Invoke(_ context.Context, args []string) error {
	c.mu.Lock()
	hook := c.invokeHook
	c.invocations = append(c.invocations, append([]string(nil), args...))
	c.mu.Unlock()

	if hook != nil {
		if err := hook(args); err != nil {
			return err
		}
	}
	if len(args) > 0 {
		out := args[len(args)-1]
		if filepath.Ext(out) != "" && !fileExists(out) {
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte("stub"), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AudioProbe builds a probe result for a plain audio source.
func AudioProbe(codec string, duration time.Duration) ffmpeg.ProbeResult {
	return ffmpeg.ProbeResult{
		Codec:      codec,
		SampleRate: 44100,
		Channels:   2,
		Duration:   duration,
	}
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TempDir = filepath.Join(base, "work")
	cfg.HistoryPath = filepath.Join(base, "history.db")
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		t.Fatalf("create temp dir: %v", err)
	}
	return &cfg
}

// WriteFile creates path (and parents) with contents, failing the test on error.
func WriteFile(t testing.TB, path, contents string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}
