package subtitles

import (
	"fmt"
	"os"
)

// ValidateFile checks a rendered subtitle file. An empty result means the file
// passed.
func ValidateFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	cues, err := ParseCues(string(data))
	if err != nil {
		return []string{fmt.Sprintf("timestamp_parse_error: %v", err)}
	}
	return ValidateCues(cues)
}

// ValidateCues reports ordering problems in a cue list.
func ValidateCues(cues []Cue) []string {
	if len(cues) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	for i, cue := range cues {
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("start_after_end: cue %d", i+1))
		}
		if i > 0 && cue.Start < cues[i-1].Start {
			issues = append(issues, fmt.Sprintf("non_monotonic_start: cue %d", i+1))
		}
	}
	return issues
}
