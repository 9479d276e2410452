// Package segmentation talks to the external sentence segmenter that splits a
// transcript into subtitle-sized lines.
//
// The segmenter returns text only. Its output is checked against the input so
// the aligner can rely on the lines covering the transcript in order.
package segmentation
