package punctuation

import (
	"errors"
	"fmt"
	"strings"

	"subtitle2go/internal/timeline"
)

// ErrCountMismatch reports that restored tokens cannot be paired 1:1 with the
// timeline.
var ErrCountMismatch = errors.New("punctuation token count mismatch")

// CountMismatchError carries both lengths for diagnostics.
type CountMismatchError struct {
	Timeline int
	Tokens   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: timeline has %d tokens, restorer returned %d", ErrCountMismatch, e.Timeline, e.Tokens)
}

func (e *CountMismatchError) Is(target error) bool {
	return target == ErrCountMismatch
}

// Merge replaces token texts with their punctuated counterparts, keeping the
// original timing.
func Merge(tl *timeline.Timeline, punctuated []string) (*timeline.Timeline, error) {
	if tl.Len() != len(punctuated) {
		return nil, &CountMismatchError{Timeline: tl.Len(), Tokens: len(punctuated)}
	}
	return tl.WithTexts(punctuated)
}

var restoredSpacer = strings.NewReplacer(".", ". ", ",", ", ", "!", "! ", "?", "? ")

// SplitRestored turns restorer output into one token per word. Sentence marks
// glued to the following word are separated and repeated spaces collapse.
func SplitRestored(text string) []string {
	spaced := restoredSpacer.Replace(text)
	return strings.Fields(spaced)
}
