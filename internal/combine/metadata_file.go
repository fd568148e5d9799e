package combine

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"m4bforge/internal/metadata"
)

// writeMetadataFile emits an FFMETADATA1 document carrying the book tags
// and one [CHAPTER] block per timeline chapter with millisecond offsets.
func writeMetadataFile(path string, book metadata.Book, chapters []metadata.Chapter) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, ";FFMETADATA1")

	writeTag(w, "title", book.Title)
	writeTag(w, "album", book.Title)
	writeTag(w, "artist", book.Author)
	writeTag(w, "album_artist", book.Author)
	writeTag(w, "composer", book.Narrator)
	writeTag(w, "genre", book.Genre)
	if book.Year > 0 {
		writeTag(w, "date", strconv.Itoa(book.Year))
	}
	writeTag(w, "comment", book.Description)

	for _, chapter := range chapters {
		fmt.Fprintln(w, "[CHAPTER]")
		fmt.Fprintln(w, "TIMEBASE=1/1000")
		fmt.Fprintf(w, "START=%d\n", chapter.Start.Milliseconds())
		fmt.Fprintf(w, "END=%d\n", chapter.End().Milliseconds())
		writeTag(w, "title", chapter.Title)
	}

	return w.Flush()
}

func writeTag(w *bufio.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s=%s\n", key, escapeMetadataValue(value))
}

// escapeMetadataValue backslash-escapes the characters the FFMETADATA
// format treats specially.
func escapeMetadataValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '\\', '=', ';', '#':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
