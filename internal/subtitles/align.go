package subtitles

import (
	"fmt"
	"log/slog"
	"strings"

	"subtitle2go/internal/logging"
	"subtitle2go/internal/timeline"
)

// Strategy selects how oracle lines are mapped back onto timeline tokens.
type Strategy string

const (
	// StrategyWholeWord assumes one token per whitespace-delimited word.
	StrategyWholeWord Strategy = "whole_word"
	// StrategySubWord matches line text against decoder sub-word pieces.
	StrategySubWord Strategy = "sub_word"
)

// DefaultBoundaryMarker is the word-boundary symbol used by sentencepiece
// vocabularies (U+2581).
const DefaultBoundaryMarker = "▁"

// ParseStrategy validates a strategy name.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategyWholeWord:
		return StrategyWholeWord, nil
	case StrategySubWord:
		return StrategySubWord, nil
	default:
		return "", fmt.Errorf("unknown alignment strategy %q", value)
	}
}

// Alignment is the outcome of one alignment pass. Warnings counts recovery
// events; a non-zero value means the cue boundaries may be imprecise.
type Alignment struct {
	Cues     []Cue
	Warnings int
}

// Notifier receives human-readable messages about lines that could not be
// aligned. It must not block.
type Notifier func(message string)

// Aligner maps segmented text lines onto a token timeline.
type Aligner struct {
	logger *slog.Logger
	notify Notifier
	marker string
}

// AlignerOption customizes an Aligner.
type AlignerOption func(*Aligner)

// WithNotifier forwards per-line alignment faults to fn.
func WithNotifier(fn Notifier) AlignerOption {
	return func(a *Aligner) {
		a.notify = fn
	}
}

// WithBoundaryMarker overrides the sub-word boundary symbol.
func WithBoundaryMarker(marker string) AlignerOption {
	return func(a *Aligner) {
		if marker != "" {
			a.marker = marker
		}
	}
}

// NewAligner constructs an aligner. A nil logger discards output.
func NewAligner(logger *slog.Logger, opts ...AlignerOption) *Aligner {
	a := &Aligner{
		logger: logging.NewComponentLogger(logger, "aligner"),
		marker: DefaultBoundaryMarker,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Align dispatches to the requested strategy.
func (a *Aligner) Align(lines []string, tl *timeline.Timeline, strategy Strategy) (Alignment, error) {
	switch strategy {
	case StrategyWholeWord:
		return a.AlignWholeWord(lines, tl), nil
	case StrategySubWord:
		return a.AlignSubWord(lines, tl), nil
	default:
		return Alignment{}, fmt.Errorf("unknown alignment strategy %q", strategy)
	}
}

// AlignWholeWord assigns each line the next run of tokens, one per word. A
// token starting at exactly zero right after the cursor is skipped once when
// choosing the cue start. Lines that run past the timeline end at the final
// token instead. Starts are taken from the timeline as-is; callers that need
// non-decreasing starts order the cues afterwards.
func (a *Aligner) AlignWholeWord(lines []string, tl *timeline.Timeline) Alignment {
	var result Alignment
	total := tl.Len()
	wordCounter := -1

	for i, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if total == 0 {
			result.Warnings++
			a.fault(i, line, "timeline is empty")
			continue
		}

		clamped := false
		begin := wordCounter + 1
		if begin < total && tl.At(begin).Start == 0 {
			begin++
		}
		if begin >= total {
			begin = total - 1
			clamped = true
		}

		var end float64
		if last := wordCounter + len(words); last < total {
			end = tl.At(last).End()
		} else {
			end = tl.At(total - 1).End()
			clamped = true
		}

		start := tl.At(begin).Start
		if end < start {
			end = start
		}
		if clamped {
			result.Warnings++
			a.logger.Warn("line extends past timeline; clamped to final token",
				logging.Int("line", i+1),
				logging.Int("words", len(words)),
				logging.Int("tokens", total),
			)
		}

		result.Cues = append(result.Cues, Cue{Text: strings.Join(words, " "), Start: start, End: end})
		wordCounter += len(words)
	}
	return result
}

func (a *Aligner) fault(index int, line, reason string) {
	msg := fmt.Sprintf("Warning, segment/token alignment failed for line %d: %s", index+1, reason)
	a.logger.Warn("line alignment failed",
		logging.Int("line", index+1),
		logging.String("text", line),
		logging.String("reason", reason),
	)
	if a.notify != nil {
		a.notify(msg)
	}
}
