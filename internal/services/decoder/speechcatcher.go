package decoder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"subtitle2go/internal/services"
	"subtitle2go/internal/timeline"
)

// DefaultSpeechcatcherModel is the streaming transformer tag used when none is
// configured.
const DefaultSpeechcatcherModel = "de_streaming_transformer_xl"

// SpeechcatcherConfig controls the Speechcatcher helper.
type SpeechcatcherConfig struct {
	Command     string
	Model       string
	ChunkLength int
	// Processes is the decoder worker count; zero lets the helper decide.
	Processes int
	BeamSize  int
}

// Speechcatcher decodes with an ESPnet streaming model. Output comes as
// paragraphs of sentencepiece tokens with start timestamps in seconds.
type Speechcatcher struct {
	cfg SpeechcatcherConfig
	run services.CommandRunner
}

type speechcatcherParagraph struct {
	Text            string    `json:"text"`
	Tokens          []string  `json:"tokens"`
	TokenTimestamps []float64 `json:"token_timestamps"`
}

type speechcatcherOutput struct {
	Text       string                   `json:"complete_text"`
	Paragraphs []speechcatcherParagraph `json:"paragraphs"`
}

// Engine implements Decoder.
func (s *Speechcatcher) Engine() Engine { return EngineSpeechcatcher }

// Model returns the configured model tag.
func (s *Speechcatcher) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultSpeechcatcherModel
}

// CheckLanguage rejects languages the model tag does not name. Empty, "auto"
// and "ignore" skip the check.
func (s *Speechcatcher) CheckLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "", "auto", "ignore":
		return nil
	}
	if !strings.Contains(s.Model(), lang) {
		return services.Wrap(services.ErrConfiguration, "speechcatcher", "check language",
			fmt.Sprintf("model %s seems to be incompatible with language %s", s.Model(), lang), nil)
	}
	return nil
}

// Decode implements Decoder.
func (s *Speechcatcher) Decode(ctx context.Context, in Input) (Transcript, error) {
	if err := requireAudio(EngineSpeechcatcher, in); err != nil {
		return Transcript{}, err
	}
	if err := s.CheckLanguage(in.Language); err != nil {
		return Transcript{}, err
	}
	name, args, err := services.SplitCommand(s.cfg.Command)
	if err != nil {
		return Transcript{}, err
	}
	args = append(args, s.buildArgs(in.AudioPath)...)
	out, err := s.run(ctx, nil, name, args...)
	if err != nil {
		return Transcript{}, decodeFailed(EngineSpeechcatcher, err)
	}
	var payload speechcatcherOutput
	if err := json.Unmarshal(out, &payload); err != nil {
		return Transcript{}, invalidOutput(EngineSpeechcatcher, err)
	}

	chunks := make([]timeline.Chunk, 0, len(payload.Paragraphs))
	for i, p := range payload.Paragraphs {
		if len(p.Tokens) != len(p.TokenTimestamps) {
			return Transcript{}, invalidOutput(EngineSpeechcatcher,
				fmt.Errorf("%w: paragraph %d has %d tokens but %d timestamps",
					timeline.ErrMalformedTimeline, i, len(p.Tokens), len(p.TokenTimestamps)))
		}
		tokens := make([]timeline.RawToken, len(p.Tokens))
		for j, text := range p.Tokens {
			tokens[j] = timeline.RawToken{Text: text, Start: p.TokenTimestamps[j]}
		}
		chunks = append(chunks, timeline.Chunk{Text: p.Text, Tokens: tokens})
	}
	return Transcript{
		Engine:      EngineSpeechcatcher,
		Strategy:    EngineSpeechcatcher.Strategy(),
		Units:       timeline.Seconds,
		Chunks:      chunks,
		Independent: true,
	}, nil
}

func (s *Speechcatcher) buildArgs(audioPath string) []string {
	chunkLength := s.cfg.ChunkLength
	if chunkLength <= 0 {
		chunkLength = 8192
	}
	beam := s.cfg.BeamSize
	if beam <= 0 {
		beam = EngineSpeechcatcher.DefaultBeamSize()
	}
	args := []string{
		"--model", s.Model(),
		"--chunk-length", strconv.Itoa(chunkLength),
		"--beam-size", strconv.Itoa(beam),
	}
	if s.cfg.Processes > 0 {
		args = append(args, "--num-processes", strconv.Itoa(s.cfg.Processes))
	}
	return append(args, audioPath)
}
