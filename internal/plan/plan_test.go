package plan

import "testing"

var profile = Profile{Codec: "aac", Bitrate: "64k", SampleRate: 44100, Channels: 2}

func TestDecideAllCompatible(t *testing.T) {
	sources := []SourceParams{
		{Path: "a.m4b", Codec: "aac", SampleRate: 44100, Channels: 2},
		{Path: "b.m4b", Codec: "aac", SampleRate: 44100, Channels: 2},
	}

	p := Decide(sources, profile)
	if !p.AllStreamCopy() {
		t.Fatalf("expected all stream copy, got %+v", p.Decisions)
	}
}

func TestDecideMarksOnlyDisagreeingSources(t *testing.T) {
	sources := []SourceParams{
		{Path: "a.m4b", Codec: "aac", SampleRate: 44100, Channels: 2},
		{Path: "b.mp3", Codec: "mp3", SampleRate: 44100, Channels: 2},
		{Path: "c.m4b", Codec: "aac", SampleRate: 22050, Channels: 1},
		{Path: "d.m4b", Codec: "aac", SampleRate: 44100, Channels: 2},
	}

	p := Decide(sources, profile)
	want := []bool{true, false, false, true}
	for i, d := range p.Decisions {
		if d.StreamCopy != want[i] {
			t.Errorf("source %s: stream copy = %v, want %v", d.Path, d.StreamCopy, want[i])
		}
	}
	if p.ReencodeCount() != 2 {
		t.Fatalf("expected 2 re-encodes, got %d", p.ReencodeCount())
	}
	// Target pinned to the reference so the concat stays uniform.
	if p.Target.SampleRate != 44100 || p.Target.Channels != 2 {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
}

func TestDecideNoNativeSource(t *testing.T) {
	sources := []SourceParams{
		{Path: "a.mp3", Codec: "mp3", SampleRate: 44100, Channels: 2},
		{Path: "b.flac", Codec: "flac", SampleRate: 48000, Channels: 2},
	}

	p := Decide(sources, profile)
	if p.AllStreamCopy() || p.ReencodeCount() != 2 {
		t.Fatalf("expected every source re-encoded, got %+v", p.Decisions)
	}
	if p.Target != profile {
		t.Fatalf("expected configured profile, got %+v", p.Target)
	}
}

func TestDecideIsPure(t *testing.T) {
	sources := []SourceParams{
		{Path: "a.m4b", Codec: "aac", SampleRate: 44100, Channels: 2},
		{Path: "b.mp3", Codec: "mp3", SampleRate: 22050, Channels: 1},
	}
	first := Decide(sources, profile)
	second := Decide(sources, profile)
	for i := range first.Decisions {
		if first.Decisions[i] != second.Decisions[i] {
			t.Fatal("Decide is not deterministic")
		}
	}
}
