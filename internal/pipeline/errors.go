package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSpecValidation marks malformed or unsatisfiable combine specs:
	// missing columns, absent source files, non-numeric years.
	ErrSpecValidation = errors.New("spec validation")
	// ErrProbe marks sources whose properties (notably duration) could not
	// be determined by the encoder collaborator.
	ErrProbe = errors.New("probe failure")
	// ErrTemplate marks naming templates containing unknown placeholders.
	ErrTemplate = errors.New("template error")
	// ErrEncode marks a failed external encoder invocation. Recoverable at
	// the batch level; recorded per task, siblings continue.
	ErrEncode = errors.New("encode failure")
)

// Wrap tags err with marker and prefixes stage/subject context. Either of
// stage and subject may be empty; a nil err produces a bare tagged error.
func Wrap(marker error, stage, subject string, err error) error {
	detail := buildDetail(stage, subject)
	if err != nil {
		if detail == "" {
			return fmt.Errorf("%w: %w", marker, err)
		}
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	if detail == "" {
		return marker
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Wrapf is Wrap with a formatted message instead of a wrapped error.
func Wrapf(marker error, stage, subject, format string, args ...any) error {
	return Wrap(marker, stage, subject, fmt.Errorf(format, args...))
}

func buildDetail(stage, subject string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	return strings.Join(parts, ": ")
}
