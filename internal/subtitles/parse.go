package subtitles

import (
	"fmt"
	"strings"

	"subtitle2go/internal/timeline"
)

// ParseCues reads SRT or WebVTT content back into cues. Index lines are
// optional; multi-line cue text is joined with a single space.
func ParseCues(content string) ([]Cue, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "WEBVTT") {
		if idx := strings.Index(trimmed, "\n\n"); idx >= 0 {
			trimmed = trimmed[idx+2:]
		} else {
			trimmed = ""
		}
	}

	var cues []Cue
	for n, block := range strings.Split(trimmed, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			return nil, fmt.Errorf("block %d: missing timing line", n+1)
		}
		startText, endText, _ := strings.Cut(lines[timing], "-->")
		start, err := timeline.ParseTimestamp(startText)
		if err != nil {
			return nil, fmt.Errorf("block %d: start: %w", n+1, err)
		}
		// VTT cue settings may follow the end timestamp.
		endFields := strings.Fields(endText)
		if len(endFields) == 0 {
			return nil, fmt.Errorf("block %d: missing end timestamp", n+1)
		}
		end, err := timeline.ParseTimestamp(endFields[0])
		if err != nil {
			return nil, fmt.Errorf("block %d: end: %w", n+1, err)
		}
		text := strings.Join(strings.Fields(strings.Join(lines[timing+1:], " ")), " ")
		cues = append(cues, Cue{Text: text, Start: start, End: end})
	}
	return cues, nil
}
