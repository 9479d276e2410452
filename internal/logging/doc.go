// Package logging assembles structured slog loggers for subtitle2go.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with job identifiers and pipeline stages.
// The console handler folds the component, job, and stage into a single header
// line and prints the remaining attributes indented below it. NewNop provides
// a discarding logger for tests and for wiring code that cannot fail.
package logging
