package metadata

import (
	"testing"
	"time"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		path     string
		index    int
		explicit string
		want     string
	}{
		{"/books/Chapter 01 - the hobbit.m4b", 1, "", "The Hobbit"},
		{"/books/ch03_dark_tower.m4b", 3, "", "Dark Tower"},
		{"/books/07.m4b", 7, "", "Chapter 7"},
		{"/books/part2.m4b", 2, "", "Chapter 2"},
		{"/books/whatever.m4b", 4, "  Declared  ", "Declared"},
		{"/books/pt 9 - final_stand.m4b", 9, "", "Final Stand"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.path, tc.index, tc.explicit); got != tc.want {
			t.Errorf("DeriveTitle(%q, %d, %q) = %q, want %q", tc.path, tc.index, tc.explicit, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{200 * time.Second, "3m 20s"},
		{3723 * time.Second, "1h 2m 3s"},
		{-time.Second, "0s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCoverIsURL(t *testing.T) {
	if !(Book{CoverSource: "https://example.com/a.jpg"}).CoverIsURL() {
		t.Fatal("expected https source to be a URL")
	}
	if (Book{CoverSource: "/covers/a.jpg"}).CoverIsURL() {
		t.Fatal("expected local path to not be a URL")
	}
	if (Book{}).CoverIsURL() {
		t.Fatal("expected empty source to not be a URL")
	}
}
