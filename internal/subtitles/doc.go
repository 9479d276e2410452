// Package subtitles turns segmented transcript lines into timed cues and
// renders them as SRT or WebVTT.
//
// The aligner maps each oracle line back onto the decoder's token timeline.
// Whole-word timelines are walked by word count; sub-word timelines are
// matched textually with a bounded forward scan when the two sequences drift
// apart. Alignment never aborts the job: problems are counted as warnings and
// the affected line is skipped or approximated.
package subtitles
