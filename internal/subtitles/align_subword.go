package subtitles

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"subtitle2go/internal/logging"
	"subtitle2go/internal/timeline"
)

var errTokensExhausted = errors.New("line text extends past the last token")

// AlignSubWord walks a single token cursor across all lines, consuming tokens
// whose text prefixes the remaining line text. Case differences are tolerated.
// On a mismatch the line text is scanned forward for the current token; if it
// never appears the token is skipped. Both recoveries count as warnings. A line
// that runs out of tokens yields no cue and the pass continues.
func (a *Aligner) AlignSubWord(lines []string, tl *timeline.Timeline) Alignment {
	var result Alignment
	cursor := 0
	for i, line := range lines {
		start := cursor
		next, warnings, err := a.consumeLine(line, tl, cursor)
		result.Warnings += warnings
		cursor = next
		if err != nil {
			result.Warnings++
			a.fault(i, line, err.Error())
			continue
		}
		if cursor == start {
			continue
		}
		result.Cues = append(result.Cues, Cue{
			Text:  strings.TrimSpace(line),
			Start: tl.At(start).Start,
			End:   tl.At(cursor - 1).End(),
		})
	}
	return result
}

// consumeLine returns the cursor after the line and the number of recovery
// events. Every iteration either shortens the remaining text or advances the
// cursor, so the loop ends within len(line)+tl.Len() steps.
func (a *Aligner) consumeLine(line string, tl *timeline.Timeline, cursor int) (int, int, error) {
	warnings := 0
	remaining := strings.TrimLeftFunc(line, unicode.IsSpace)
	for remaining != "" {
		if cursor >= tl.Len() {
			return cursor, warnings, errTokensExhausted
		}
		token := strings.ReplaceAll(tl.At(cursor).Text, a.marker, " ")
		candidates := [2]string{
			strings.TrimLeftFunc(token, unicode.IsSpace),
			strings.ReplaceAll(token, " ", ""),
		}

		if n, ok := matchExact(remaining, candidates); ok {
			remaining = strings.TrimLeftFunc(remaining[n:], unicode.IsSpace)
			cursor++
			continue
		}
		if n, ok := matchFolded(remaining, candidates); ok {
			remaining = strings.TrimLeftFunc(remaining[n:], unicode.IsSpace)
			cursor++
			continue
		}

		if skip, ok := scanForward(remaining, candidates); ok {
			warnings++
			a.logger.Debug("skipped unmatched line text",
				logging.String("skipped", remaining[:skip]),
				logging.String("token", token),
			)
			remaining = remaining[skip:]
			continue
		}

		warnings++
		a.logger.Warn("segment overflow; advancing token cursor",
			logging.String("line", line),
			logging.String("token", token),
			logging.Int("cursor", cursor),
		)
		cursor++
	}
	return cursor, warnings, nil
}

func matchExact(s string, candidates [2]string) (int, bool) {
	for _, c := range candidates {
		if strings.HasPrefix(s, c) {
			return len(c), true
		}
	}
	return 0, false
}

func matchFolded(s string, candidates [2]string) (int, bool) {
	for _, c := range candidates {
		if n, ok := foldedPrefixLen(s, c); ok {
			return n, true
		}
	}
	return 0, false
}

// foldedPrefixLen reports whether s starts with prefix ignoring case and
// returns the number of bytes of s that matched.
func foldedPrefixLen(s, prefix string) (int, bool) {
	i := 0
	for _, pr := range prefix {
		if i >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if !sameLetter(sr, pr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

func sameLetter(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}

// scanForward looks for the first later rune offset at which a non-empty
// candidate matches exactly.
func scanForward(s string, candidates [2]string) (int, bool) {
	for offset := range s {
		if offset == 0 {
			continue
		}
		rest := s[offset:]
		for _, c := range candidates {
			if c != "" && strings.HasPrefix(rest, c) {
				return offset, true
			}
		}
	}
	return 0, false
}
