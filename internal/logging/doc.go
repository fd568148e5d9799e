// Package logging constructs slog loggers with console and JSON output.
package logging
