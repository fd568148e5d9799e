package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"m4bforge/internal/config"
)

// Requirement defines an external binary the pipelines rely on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minTempSpaceBytes is the free space floor for the working directory.
const minTempSpaceBytes = 512 << 20

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Result {
	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		result := Result{Name: req.Name}
		switch {
		case cmd == "":
			result.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				result.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				result.Passed = true
				result.Detail = req.Description
			}
		}
		results = append(results, result)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has enough free space
// for intermediate encode output.
func CheckFreeSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minTempSpaceBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.0f MiB free, need %d MiB)", path, float64(free)/(1<<20), minTempSpaceBytes>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))}
}

// RunAll executes all preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckBinaries([]Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Encoder.FFmpeg,
			Description: "Required for encoding and remuxing",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Encoder.FFprobe,
			Description: "Required for media inspection",
		},
	})

	tempDir := cfg.TempDir
	if strings.TrimSpace(tempDir) == "" {
		tempDir = os.TempDir()
	}
	results = append(results, CheckDirectoryAccess("Working directory", tempDir))
	results = append(results, CheckFreeSpace("Working directory space", tempDir))

	return results
}
