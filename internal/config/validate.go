package config

import "fmt"

var validLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

var validLogFormats = map[string]struct{}{
	"console": {}, "json": {},
}

var validSplitFormats = map[string]struct{}{
	"mp3": {}, "m4a": {}, "m4b": {}, "flac": {}, "ogg": {}, "wav": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	if _, ok := validLogFormats[c.LogFormat]; !ok {
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if _, ok := validSplitFormats[c.Split.Format]; !ok {
		return fmt.Errorf("split.format: unsupported value %q", c.Split.Format)
	}
	return nil
}
