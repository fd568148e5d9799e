package spec

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
)

// ParseFile reads a combine spec from a CSV file. Relative file references
// inside the CSV resolve against the CSV's own directory.
func ParseFile(path string) (*CombineSpec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "csv", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "csv", path, err)
	}
	defer f.Close()
	return Parse(f, filepath.Dir(abs))
}

// Parse reads a combine spec from r. baseDir anchors relative file, cover,
// and output paths.
func Parse(r io.Reader, baseDir string) (*CombineSpec, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "csv", "", err)
	}

	result := &CombineSpec{}
	dataStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			dataStart = i + 1
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		warning, err := applyMetadataLine(&result.Book, trimmed, baseDir)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		dataStart = i + 1
	}

	data := lines[dataStart:]
	if len(data) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", "", "no data rows")
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(data, "\n")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "csv", "header", err)
	}
	fileCol, titleCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "file":
			if fileCol < 0 {
				fileCol = i
			}
		case "title":
			if titleCol < 0 {
				titleCol = i
			}
		}
	}
	if fileCol < 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", "header", "missing %q column", "file")
	}
	// Unrecognized columns may precede file; recognized ones may not.
	if titleCol >= 0 && titleCol < fileCol {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", "header", "%q must come before %q", "file", "title")
	}

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pipeline.Wrap(pipeline.ErrSpecValidation, "csv", fmt.Sprintf("row %d", row), err)
		}
		row++
		if isBlankRecord(record) {
			continue
		}

		entry, err := buildEntry(record, fileCol, titleCol, baseDir, row)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, entry)
	}

	if len(result.Entries) == 0 {
		return nil, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", "", "no file rows")
	}
	return result, nil
}

func buildEntry(record []string, fileCol, titleCol int, baseDir string, row int) (Entry, error) {
	subject := fmt.Sprintf("row %d", row)

	if fileCol >= len(record) || strings.TrimSpace(record[fileCol]) == "" {
		return Entry{}, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", subject, "missing file reference")
	}
	file := resolvePath(strings.TrimSpace(record[fileCol]), baseDir)

	info, err := os.Stat(file)
	if err != nil {
		return Entry{}, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", subject, "file not found: %s", file)
	}
	if info.IsDir() {
		return Entry{}, pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", subject, "%s is a directory", file)
	}

	entry := Entry{File: file}
	if titleCol >= 0 && titleCol < len(record) {
		entry.Title = strings.TrimSpace(record[titleCol])
	}
	for i, value := range record {
		if i != fileCol && i != titleCol {
			entry.Extras = append(entry.Extras, value)
		}
	}
	return entry, nil
}

// applyMetadataLine folds one "#key,value" preamble line into book. It
// returns a warning string for unrecognized keys; malformed values for
// recognized keys are fatal.
func applyMetadataLine(book *metadata.Book, line, baseDir string) (string, error) {
	body := strings.TrimPrefix(line, "#")
	key, value, found := strings.Cut(body, ",")
	if !found {
		key, value, found = strings.Cut(body, ":")
	}
	if !found {
		return "", nil
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return "", nil
	}

	switch key {
	case "title":
		book.Title = value
	case "author":
		book.Author = value
	case "narrator":
		book.Narrator = value
	case "genre":
		book.Genre = value
	case "year":
		year, err := strconv.Atoi(value)
		if err != nil {
			return "", pipeline.Wrapf(pipeline.ErrSpecValidation, "csv", "year", "not a number: %q", value)
		}
		book.Year = year
	case "description":
		book.Description = value
	case "output_path":
		book.OutputPath = resolvePath(value, baseDir)
	case "cover_path":
		if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			book.CoverSource = value
		} else {
			book.CoverSource = resolvePath(value, baseDir)
		}
	default:
		return fmt.Sprintf("unrecognized metadata key %q", key), nil
	}
	return "", nil
}

func resolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
