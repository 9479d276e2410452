package decoder

import (
	"context"
	"fmt"
	"strings"

	"subtitle2go/internal/services"
	"subtitle2go/internal/subtitles"
	"subtitle2go/internal/timeline"
)

// Input describes one decode request.
type Input struct {
	// AudioPath is a 16 kHz mono WAV file.
	AudioPath string
	// WorkDir receives engine scratch files.
	WorkDir string
	// Language is an ISO 639-1 code, or empty for auto detection.
	Language string
	// KaldiModel is the decoder YAML for the language.
	KaldiModel string
}

// Transcript is the normalized engine output.
type Transcript struct {
	Engine   Engine
	Strategy subtitles.Strategy
	Units    timeline.Units
	Chunks   []timeline.Chunk
	// Independent chunks are segmented and aligned one at a time. Otherwise
	// all chunks form one timeline.
	Independent bool
}

// TokenCount returns the number of tokens across all chunks.
func (t Transcript) TokenCount() int {
	n := 0
	for _, c := range t.Chunks {
		n += len(c.Tokens)
	}
	return n
}

// Decoder turns audio into a Transcript.
type Decoder interface {
	Engine() Engine
	Decode(ctx context.Context, in Input) (Transcript, error)
}

// Options configures every engine variant; New picks the relevant part.
type Options struct {
	Kaldi         KaldiConfig
	Whisper       WhisperConfig
	Speechcatcher SpeechcatcherConfig
	Runner        services.CommandRunner
}

// New builds the decoder for engine.
func New(engine Engine, opts Options) (Decoder, error) {
	runner := opts.Runner
	if runner == nil {
		runner = services.ExecRunner
	}
	switch engine {
	case EngineKaldi:
		return &Kaldi{cfg: opts.Kaldi, run: runner}, nil
	case EngineWhisper:
		return &WhisperX{cfg: opts.Whisper, run: runner}, nil
	case EngineSpeechcatcher:
		return &Speechcatcher{cfg: opts.Speechcatcher, run: runner}, nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", services.ErrConfiguration, engine)
	}
}

func requireAudio(engine Engine, in Input) error {
	if strings.TrimSpace(in.AudioPath) == "" {
		return services.Wrap(services.ErrValidation, string(engine), "decode", "audio path required", nil)
	}
	return nil
}

func decodeFailed(engine Engine, err error) error {
	return services.Wrap(services.ErrExternalTool, string(engine), "decode", fmt.Sprintf("%s decode failed", engine.Display()), err)
}

func invalidOutput(engine Engine, err error) error {
	return services.Wrap(services.ErrValidation, string(engine), "parse output", "decoder returned unreadable output", err)
}
