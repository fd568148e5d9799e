// Package pipeline holds the failure taxonomy and batch reporting types
// shared by the combine, split, and convert flows.
//
// Errors are tagged with sentinel markers so callers can classify failures
// with errors.Is: spec/CSV validation problems abort before any encoding,
// probe failures abort a combine outright, template errors abort before
// scheduling, and encode failures are collected per task without cancelling
// siblings. Wrap attaches stage and subject context so every failure names
// the file, chapter, or row that caused it.
package pipeline
