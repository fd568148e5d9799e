// Package combine merges ordered audio sources into a single chaptered
// M4B container, re-encoding only the sources that need it.
package combine
