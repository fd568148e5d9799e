// Package plan decides stream-copy versus re-encode for each combine source.
// The decision is a pure function of the probed codec, sample rate, and
// channel count: matching sources pass through bit-exact, disagreeing ones
// are re-encoded to a spoken-word profile so the concatenation stays uniform.
package plan
