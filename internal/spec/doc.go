// Package spec parses and generates the CSV combine specification that
// drives many-files-to-one-container operations.
//
// The format is CSV with an optional metadata preamble: lines starting with
// '#' before the first data row carry "#key,value" book metadata, the first
// plain line is a header that must include a "file" column (and may include
// "title"), and every following row contributes one chapter source in order.
// Generate writes a template for a folder of containers that Parse accepts
// unchanged, so the two are round-trip compatible.
package spec
