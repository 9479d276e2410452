// Package preflight provides readiness checks for the programs, models and
// directories a transcription run depends on.
//
// The "subtitle2go check" command prints every result; "generate" runs the
// same checks and refuses to start when a required binary is missing.
package preflight
