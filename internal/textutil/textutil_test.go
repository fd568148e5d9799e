package textutil

import (
	"reflect"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chapter 1: The Start", "Chapter 1- The Start"},
		{"a/b\\c", "a-b-c"},
		{"what?", "what"},
		{"  padded  ", "padded"},
		{"trailing...", "trailing"},
		{"<angle|pipe>", "anglepipe"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNaturalLessOrdersNumericRuns(t *testing.T) {
	files := []string{"chapter10.m4b", "chapter2.m4b", "chapter1.m4b"}
	SortNatural(files, nil)

	want := []string{"chapter1.m4b", "chapter2.m4b", "chapter10.m4b"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("unexpected order: %v", files)
	}
}

func TestNaturalLessCaseAndZeros(t *testing.T) {
	if !NaturalLess("Part 02", "part 10") {
		t.Fatal("expected Part 02 < part 10")
	}
	if NaturalLess("part 010", "part 2") {
		t.Fatal("expected part 2 < part 010")
	}
	if !NaturalLess("intro", "intro 2") {
		t.Fatal("expected shorter prefix to sort first")
	}
}
