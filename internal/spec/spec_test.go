package spec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"m4bforge/internal/pipeline"
)

func writeContainers(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestParseReadsMetadataAndRows(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "01.m4b", "02.m4b")

	csvText := strings.Join([]string{
		"#title,The Long Way",
		"#author,A. Wayfarer",
		"#narrator,B. Voice",
		"#genre,Audiobook",
		"#year,2019",
		"#description,A journey",
		"#output_path,out/book.m4b",
		"#cover_path,cover.jpg",
		"#favorite_color,blue",
		"",
		"file,title,notes",
		"01.m4b,Opening,keep",
		"02.m4b,Closing,",
	}, "\n")

	combined, err := Parse(strings.NewReader(csvText), dir)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if combined.Book.Title != "The Long Way" || combined.Book.Author != "A. Wayfarer" {
		t.Fatalf("unexpected book metadata: %+v", combined.Book)
	}
	if combined.Book.Year != 2019 {
		t.Fatalf("unexpected year: %d", combined.Book.Year)
	}
	if combined.Book.OutputPath != filepath.Join(dir, "out", "book.m4b") {
		t.Fatalf("unexpected output path: %q", combined.Book.OutputPath)
	}
	if combined.Book.CoverSource != filepath.Join(dir, "cover.jpg") {
		t.Fatalf("unexpected cover source: %q", combined.Book.CoverSource)
	}
	if len(combined.Warnings) != 1 || !strings.Contains(combined.Warnings[0], "favorite_color") {
		t.Fatalf("expected one unknown-key warning, got %v", combined.Warnings)
	}

	if len(combined.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(combined.Entries))
	}
	if combined.Entries[0].Title != "Opening" || combined.Entries[1].Title != "Closing" {
		t.Fatalf("unexpected titles: %+v", combined.Entries)
	}
	if !reflect.DeepEqual(combined.Entries[0].Extras, []string{"keep"}) {
		t.Fatalf("unexpected extras: %v", combined.Entries[0].Extras)
	}
	if combined.Entries[0].File != filepath.Join(dir, "01.m4b") {
		t.Fatalf("unexpected file path: %q", combined.Entries[0].File)
	}
}

func TestParseRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	csvText := "file,title\nmissing.m4b,Ghost\n"

	_, err := Parse(strings.NewReader(csvText), dir)
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.m4b") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestParseRejectsHeaderWithoutFileColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("title\nOpening\n"), t.TempDir())
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
}

func TestParseAcceptsUnrecognizedColumnBeforeFile(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "01.m4b")
	csvText := "notes,file,title\nskip,01.m4b,Intro\n"

	combined, err := Parse(strings.NewReader(csvText), dir)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(combined.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(combined.Entries))
	}
	if combined.Entries[0].Title != "Intro" {
		t.Fatalf("unexpected title: %q", combined.Entries[0].Title)
	}
	if combined.Entries[0].File != filepath.Join(dir, "01.m4b") {
		t.Fatalf("unexpected file path: %q", combined.Entries[0].File)
	}
	if !reflect.DeepEqual(combined.Entries[0].Extras, []string{"skip"}) {
		t.Fatalf("unexpected extras: %v", combined.Entries[0].Extras)
	}
}

func TestParseRejectsTitleColumnBeforeFile(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "01.m4b")

	_, err := Parse(strings.NewReader("title,file\nIntro,01.m4b\n"), dir)
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
}

func TestParseRejectsNonNumericYear(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "01.m4b")
	csvText := "#year,nineteen\nfile,title\n01.m4b,One\n"

	_, err := Parse(strings.NewReader(csvText), dir)
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "nineteen") {
		t.Fatalf("error should name the bad value: %v", err)
	}
}

func TestParseRejectsRowWithoutFile(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "01.m4b")
	csvText := "file,title\n01.m4b,One\n,Two\n"

	_, err := Parse(strings.NewReader(csvText), dir)
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader("#title,Book\n"), t.TempDir())
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
}

func TestFromGlobNaturalSortsAndDerivesTitles(t *testing.T) {
	dir := t.TempDir()
	paths := writeContainers(t, dir, "chapter10.m4b", "chapter2.m4b", "chapter1.m4b", "notes.txt")

	combined := FromGlob(paths)
	got := make([]string, len(combined.Entries))
	for i, entry := range combined.Entries {
		got[i] = filepath.Base(entry.File)
	}
	want := []string{"chapter1.m4b", "chapter2.m4b", "chapter10.m4b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestGenerateRoundTripsThroughParse(t *testing.T) {
	dir := t.TempDir()
	writeContainers(t, dir, "chapter2.m4b", "chapter10.m4b", "chapter1.m4b")

	text, err := Generate(dir, dir)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	combined, err := Parse(bytes.NewReader(text), dir)
	if err != nil {
		t.Fatalf("Parse of generated template failed: %v", err)
	}

	got := make([]string, len(combined.Entries))
	for i, entry := range combined.Entries {
		got[i] = filepath.Base(entry.File)
	}
	want := []string{"chapter1.m4b", "chapter2.m4b", "chapter10.m4b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip changed file order: %v", got)
	}
	if combined.Book.Genre != "Audiobook" {
		t.Fatalf("expected default genre, got %q", combined.Book.Genre)
	}
	if combined.Book.Title != filepath.Base(dir) {
		t.Fatalf("expected folder-name title, got %q", combined.Book.Title)
	}
}

func TestGenerateRejectsEmptyFolder(t *testing.T) {
	_, err := Generate(t.TempDir(), "")
	if !errors.Is(err, pipeline.ErrSpecValidation) {
		t.Fatalf("expected spec validation error, got %v", err)
	}
}
