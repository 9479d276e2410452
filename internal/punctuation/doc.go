// Package punctuation restores casing and punctuation on decoder output and
// merges the result back onto the timed token sequence.
//
// Restoration is delegated to an external helper. Merge is strict: the
// restored token count must equal the timeline length, otherwise the job stops
// with ErrCountMismatch instead of silently pairing text with the wrong times.
package punctuation
