package config

const (
	defaultHistoryPath   = "~/.local/share/m4bforge/history.db"
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultJobs          = 1
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultAudioBitrate  = "64k"
	defaultSampleRate    = 44100
	defaultChannels      = 2
	defaultSplitFormat   = "mp3"
	defaultSplitTemplate = "{chapter_num:02d} - {chapter_title}.{ext}"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		HistoryPath: defaultHistoryPath,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
		Jobs:        defaultJobs,
		Encoder: Encoder{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Audio: Audio{
			Bitrate:    defaultAudioBitrate,
			SampleRate: defaultSampleRate,
			Channels:   defaultChannels,
		},
		Split: Split{
			Format:   defaultSplitFormat,
			Template: defaultSplitTemplate,
		},
	}
}
