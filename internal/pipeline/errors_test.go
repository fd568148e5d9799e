package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := Wrap(ErrSpecValidation, "parse", "row 3", cause)

	if !errors.Is(err, ErrSpecValidation) {
		t.Fatalf("expected spec validation marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "spec validation: parse: row 3: no such file"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrTemplate, "resolve", "", nil)
	if !errors.Is(err, ErrTemplate) {
		t.Fatalf("expected template marker, got %v", err)
	}
	if err.Error() != "template error: resolve" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestReportSummary(t *testing.T) {
	r := Report{Total: 5, Succeeded: 3, Failures: []Failure{{Key: "a"}, {Key: "b"}}}
	if r.Failed() != 2 {
		t.Fatalf("expected 2 failed, got %d", r.Failed())
	}
	if r.AllSucceeded() {
		t.Fatal("expected partial failure")
	}
	if r.Summary() != "3 of 5 succeeded" {
		t.Fatalf("unexpected summary: %q", r.Summary())
	}

	var total Report
	total.Merge(r)
	total.Merge(Report{Total: 1, Succeeded: 1})
	if total.Total != 6 || total.Succeeded != 4 || len(total.Failures) != 2 {
		t.Fatalf("unexpected merge result: %+v", total)
	}
}
