// Package ffmpeg is the external encoder collaborator boundary. The core
// pipelines depend only on the Client interface: Probe inspects a media
// file's codec, timing, tags, and embedded chapters via ffprobe JSON output,
// and Invoke runs one ffmpeg command to completion. CLI is the subprocess
// implementation; tests substitute a stub so no real binaries are needed.
package ffmpeg
