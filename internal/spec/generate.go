package spec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/textutil"
)

// DefaultTemplatePath returns the CSV path Generate-based commands write
// when the caller does not name one: <folder>/<folder name>.csv.
func DefaultTemplatePath(folder string) string {
	return filepath.Join(folder, filepath.Base(folder)+".csv")
}

// Generate produces CSV template text for the containers found under folder
// (recursively), listed in natural order with titles derived from their
// filenames. File paths in the output are relative to csvDir so the template
// parses from that location; pass the folder itself when the template will
// live beside the audio. The output round-trips through Parse.
func Generate(folder, csvDir string) ([]byte, error) {
	folder, err := filepath.Abs(folder)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "generate", folder, err)
	}
	info, err := os.Stat(folder)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "generate", folder, err)
	}
	if !info.IsDir() {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "generate", folder, "not a directory")
	}
	if csvDir == "" {
		csvDir = folder
	}

	files, err := findContainers(folder)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "generate", folder, err)
	}
	if len(files) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "generate", folder, "no container files found")
	}

	name := filepath.Base(folder)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#title,%s\n", name)
	buf.WriteString("#author,\n")
	buf.WriteString("#narrator,\n")
	buf.WriteString("#genre,Audiobook\n")
	buf.WriteString("#year,\n")
	buf.WriteString("#description,\n")
	fmt.Fprintf(&buf, "#output_path,%s\n", filepath.Join(folder, name+".m4b"))
	buf.WriteString("#cover_path,\n")
	buf.WriteString("\n")

	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"file", "title"}); err != nil {
		return nil, err
	}
	for i, file := range files {
		rel, relErr := filepath.Rel(csvDir, file)
		if relErr != nil {
			rel = file
		}
		title := metadata.DeriveTitle(file, i+1, "")
		if err := writer.Write([]string{rel, title}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findContainers(folder string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsContainer(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	textutil.SortNatural(files, filepath.Base)
	return files, nil
}
