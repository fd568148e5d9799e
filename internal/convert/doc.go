// Package convert turns loose audio files into M4B containers, one
// output per input, preserving directory structure.
package convert
