package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCommand(t)
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	for _, want := range []string{"combine", "split", "convert", "generate-csv", "history", "status"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateCSVCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	folder := t.TempDir()
	for _, name := range []string{"02 part.m4b", "01 intro.m4b"} {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	output := filepath.Join(t.TempDir(), "book.csv")

	out, err := runCommand(t, "generate-csv", folder, "--output", output)
	if err != nil {
		t.Fatalf("generate-csv failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "file,title") {
		t.Fatalf("template missing header:\n%s", text)
	}
	if strings.Index(text, "01 intro") > strings.Index(text, "02 part") {
		t.Fatalf("entries not in natural order:\n%s", text)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when target already exists")
	}

	out, err = runCommand(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestHistoryCommandOnEmptyDatabase(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No runs recorded yet.") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func TestRenderTableAlignsAndPadsRows(t *testing.T) {
	out := renderTable(
		[]string{"#", "Title", "Duration"},
		[][]string{
			{"1", "Intro", "30s"},
			{"2", "Body"},
		},
		1, 3,
	)
	for _, want := range []string{"Title", "Intro", "30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines[1:] {
		if utf8.RuneCountInString(line) != width {
			t.Fatalf("short row not padded to table width:\n%s", out)
		}
	}
}

func TestCombineRejectsConflictingInputs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := runCommand(t, "combine"); err == nil {
		t.Fatal("expected error without inputs")
	}
	if _, err := runCommand(t, "combine", "--csv", "spec.csv", "a.mp3"); err == nil {
		t.Fatal("expected error for --csv plus file arguments")
	}
}
