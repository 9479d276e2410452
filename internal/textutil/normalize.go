package textutil

import "strings"

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims
// the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinLines joins lines with single spaces and normalizes the result.
func JoinLines(lines []string) string {
	return NormalizeWhitespace(strings.Join(lines, " "))
}

// EqualFoldWhitespace reports whether a and b match ignoring case and the
// amount of whitespace between words.
func EqualFoldWhitespace(a, b string) bool {
	return strings.EqualFold(NormalizeWhitespace(a), NormalizeWhitespace(b))
}

// FirstDifference returns the byte offset in the normalized, lowercased forms
// of a and b where they first differ, or -1 if they are equal.
func FirstDifference(a, b string) int {
	na := strings.ToLower(NormalizeWhitespace(a))
	nb := strings.ToLower(NormalizeWhitespace(b))
	limit := min(len(na), len(nb))
	for i := 0; i < limit; i++ {
		if na[i] != nb[i] {
			return i
		}
	}
	if len(na) == len(nb) {
		return -1
	}
	return limit
}
