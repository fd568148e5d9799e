package plan

// NativeCodec is the audio codec M4B/M4A containers carry natively; only
// sources already in this codec are candidates for stream copy.
const NativeCodec = "aac"

// Profile is the fixed re-encode target for spoken-word content.
type Profile struct {
	Codec      string
	Bitrate    string
	SampleRate int
	Channels   int
}

// SourceParams are the probed properties the decision is based on.
type SourceParams struct {
	Path       string
	Codec      string
	SampleRate int
	Channels   int
}

// Decision records what happens to one source.
type Decision struct {
	Path       string
	StreamCopy bool
}

// Plan is the per-source encoding plan for a combine.
type Plan struct {
	Decisions []Decision
	// Target is the profile every re-encoded source is converted to. When
	// some sources stream-copy, the target is pinned to their sample rate
	// and channel count so all inputs agree at concat time.
	Target Profile
}

// ReencodeCount returns how many sources need re-encoding.
func (p Plan) ReencodeCount() int {
	count := 0
	for _, d := range p.Decisions {
		if !d.StreamCopy {
			count++
		}
	}
	return count
}

// AllStreamCopy reports whether no source needs re-encoding.
func (p Plan) AllStreamCopy() bool {
	return p.ReencodeCount() == 0
}

// Decide builds the encoding plan. The reference parameters are taken from
// the first source already in the native codec; sources matching the
// reference exactly stream-copy and the rest re-encode at profile pinned to
// the reference rate and channels. Without any native-codec source,
// everything re-encodes at profile as configured.
func Decide(sources []SourceParams, profile Profile) Plan {
	p := Plan{Target: profile}
	if p.Target.Codec == "" {
		p.Target.Codec = NativeCodec
	}

	ref, found := findReference(sources)
	if found {
		p.Target.SampleRate = ref.SampleRate
		p.Target.Channels = ref.Channels
	}

	for _, src := range sources {
		copyable := found &&
			src.Codec == ref.Codec &&
			src.SampleRate == ref.SampleRate &&
			src.Channels == ref.Channels
		p.Decisions = append(p.Decisions, Decision{Path: src.Path, StreamCopy: copyable})
	}
	return p
}

func findReference(sources []SourceParams) (SourceParams, bool) {
	for _, src := range sources {
		if src.Codec == NativeCodec {
			return src, true
		}
	}
	return SourceParams{}, false
}
