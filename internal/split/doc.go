// Package split extracts the chapters of M4B/M4A containers into
// standalone audio files named by a template.
package split
