package subtitles

import "strings"

// fragmentMarkers are prefixes the segmenter tends to push onto the start of
// the following line.
var fragmentMarkers = []string{",", ".", "?", "!", "'", "n't"}

// ReattachFragments moves stray leading punctuation and contraction fragments
// back onto the previous line. The line count is preserved; a line consisting
// only of a fragment becomes an empty string.
func ReattachFragments(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	out = append(out, lines[0])
	for _, line := range lines[1:] {
		first, rest, _ := strings.Cut(line, " ")
		if isFragment(first) {
			out[len(out)-1] += first
			line = rest
		}
		out = append(out, line)
	}
	return out
}

func isFragment(word string) bool {
	for _, marker := range fragmentMarkers {
		if strings.HasPrefix(word, marker) {
			return true
		}
	}
	return false
}
