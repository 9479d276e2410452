// Package decoder runs the speech recognition engines and normalizes their
// output into timeline chunks.
//
// Every engine is an external helper driven through a services.CommandRunner:
// Kaldi and Speechcatcher through small JSON-emitting wrappers, WhisperX
// through uvx. The returned Transcript tells the pipeline which time unit the
// chunks use and which alignment strategy fits the token granularity.
package decoder
