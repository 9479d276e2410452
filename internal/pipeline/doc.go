// Package pipeline runs one subtitle job from media file to subtitle file.
//
// A Runner resolves the configured engine and language once, then each Run
// takes a per-media lock, records the job, extracts audio, decodes, segments
// and aligns every transcript unit, and writes the result atomically. Stage
// transitions are mirrored into the job registry and published to the status
// sinks; the final signal is warning then success, or error.
package pipeline
