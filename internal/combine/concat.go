package combine

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// writeConcatList writes an ffmpeg concat demuxer file listing each
// segment in order. Paths are single-quoted with embedded quotes escaped
// the way the demuxer expects.
func writeConcatList(path string, segments []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, segment := range segments {
		fmt.Fprintf(w, "file '%s'\n", strings.ReplaceAll(segment, "'", `'\''`))
	}
	return w.Flush()
}
