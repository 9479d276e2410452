package decoder

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"subtitle2go/internal/services"
	"subtitle2go/internal/subtitles"
)

// Engine names a speech recognition backend.
type Engine string

const (
	EngineKaldi         Engine = "kaldi"
	EngineWhisper       Engine = "whisper"
	EngineSpeechcatcher Engine = "speechcatcher"
)

var titleCaser = cases.Title(language.Und)

// ParseEngine validates an engine name.
func ParseEngine(value string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(value))) {
	case EngineKaldi:
		return EngineKaldi, nil
	case EngineWhisper:
		return EngineWhisper, nil
	case EngineSpeechcatcher:
		return EngineSpeechcatcher, nil
	default:
		return "", fmt.Errorf("%w: unknown engine %q (want kaldi, whisper or speechcatcher)", services.ErrConfiguration, value)
	}
}

// Display returns the engine name for human-facing output.
func (e Engine) Display() string {
	if e == EngineWhisper {
		return "WhisperX"
	}
	return titleCaser.String(string(e))
}

// Strategy returns the alignment strategy matching the engine's token
// granularity.
func (e Engine) Strategy() subtitles.Strategy {
	if e == EngineSpeechcatcher {
		return subtitles.StrategySubWord
	}
	return subtitles.StrategyWholeWord
}

// DefaultBeamSize returns the engine's default decoding beam.
func (e Engine) DefaultBeamSize() int {
	switch e {
	case EngineKaldi:
		return 13
	case EngineWhisper:
		return 5
	default:
		return 10
	}
}
