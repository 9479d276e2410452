// Package timeline holds the timed token sequence produced by a speech
// recognition engine.
//
// Engines report token positions in their own units (Kaldi frames, seconds,
// etc.). Build converts those into seconds once, validates ordering, and
// returns an immutable Timeline that the punctuation merger and the subtitle
// aligner read from. The package also owns the timestamp formatting rules used
// by the SRT and WebVTT renderers.
package timeline
