package segmentation

import (
	"fmt"

	"subtitle2go/internal/textutil"
)

// Coverage describes how well segmented lines reproduce the input text.
type Coverage struct {
	OK bool
	// Offset is the position in the normalized text of the first difference,
	// or -1.
	Offset int
	// Similarity is the bag-of-words cosine similarity of input and output.
	Similarity float64
}

// VerifyCoverage checks that lines, joined with single spaces, reproduce text
// modulo case and whitespace.
func VerifyCoverage(text string, lines []string) Coverage {
	joined := textutil.JoinLines(lines)
	if textutil.EqualFoldWhitespace(text, joined) {
		return Coverage{OK: true, Offset: -1, Similarity: 1}
	}
	return Coverage{
		Offset:     textutil.FirstDifference(text, joined),
		Similarity: textutil.CosineSimilarity(textutil.NewFingerprint(text), textutil.NewFingerprint(joined)),
	}
}

func (c Coverage) String() string {
	if c.OK {
		return "complete"
	}
	return fmt.Sprintf("diverges at offset %d (similarity %.2f)", c.Offset, c.Similarity)
}
