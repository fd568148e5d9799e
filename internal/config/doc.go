// Package config loads the m4bforge TOML configuration: encoder binaries,
// temp and history locations, logging options, default concurrency, and the
// spoken-word re-encode profile. Load layers the file (when present) over
// repository defaults, expands ~ in paths, normalizes, and validates, so the
// rest of the program only ever sees a usable config.
package config
