package decoder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	langpkg "subtitle2go/internal/language"
	"subtitle2go/internal/services"
	"subtitle2go/internal/timeline"
)

// WhisperConfig captures runtime settings for WhisperX.
type WhisperConfig struct {
	// Model is the Whisper model to use (e.g., "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADMethod selects voice activity detection ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken  string
	BeamSize int
}

// WhisperX configuration constants.
const (
	DefaultWhisperModel = "large-v3"
	CUDAIndexURL        = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL        = "https://pypi.org/simple"
	BatchSize           = "4"
	ChunkSize           = "15"
	VADOnset            = "0.08"
	VADOffset           = "0.07"
	BestOf              = "5"
	Temperature         = "0.0"
	Patience            = "1.0"
	CPUDevice           = "cpu"
	CUDADevice          = "cuda"
	CPUComputeType      = "float32"
	VADMethodPyannote   = "pyannote"
	VADMethodSilero     = "silero"
	UVXCommand          = "uvx"
)

// WhisperX decodes with WhisperX and reads the word-level JSON it writes.
type WhisperX struct {
	cfg WhisperConfig
	run services.CommandRunner
}

// whisperWord mirrors a WhisperX word entry. Numerals and symbols the aligner
// could not place come without timestamps.
type whisperWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words"`
}

type whisperPayload struct {
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

// Engine implements Decoder.
func (w *WhisperX) Engine() Engine { return EngineWhisper }

// Model returns the configured model name for logging.
func (w *WhisperX) Model() string {
	if w.cfg.Model != "" {
		return w.cfg.Model
	}
	return DefaultWhisperModel
}

// Decode implements Decoder.
func (w *WhisperX) Decode(ctx context.Context, in Input) (Transcript, error) {
	if err := requireAudio(EngineWhisper, in); err != nil {
		return Transcript{}, err
	}
	outputDir := in.WorkDir
	if outputDir == "" {
		outputDir = filepath.Dir(in.AudioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Transcript{}, fmt.Errorf("whisperx: ensure output dir: %w", err)
	}
	if _, err := w.run(ctx, nil, UVXCommand, w.buildArgs(in.AudioPath, outputDir, in.Language)...); err != nil {
		return Transcript{}, decodeFailed(EngineWhisper, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(in.AudioPath), filepath.Ext(in.AudioPath))
	segments, err := loadWhisperSegments(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return Transcript{}, invalidOutput(EngineWhisper, err)
	}
	return Transcript{
		Engine:   EngineWhisper,
		Strategy: EngineWhisper.Strategy(),
		Units:    timeline.Seconds,
		Chunks:   []timeline.Chunk{{Tokens: wordsToTokens(segments)}},
	}, nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (w *WhisperX) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 40)
	if w.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	beam := w.cfg.BeamSize
	if beam <= 0 {
		beam = EngineWhisper.DefaultBeamSize()
	}
	args = append(args,
		"whisperx",
		source,
		"--model", w.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", strconv.Itoa(beam),
		"--best_of", BestOf,
		"--temperature", Temperature,
		"--patience", Patience,
	)

	vadMethod := w.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && w.cfg.HFToken != "" {
		args = append(args, "--hf_token", w.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if w.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func loadWhisperSegments(jsonPath string) ([]whisperSegment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

// wordsToTokens flattens segment words into raw tokens. A word without a
// start inherits the previous word's end; the first word falls back to zero,
// which the timeline treats as "time not available". Starts never move
// backwards.
func wordsToTokens(segments []whisperSegment) []timeline.RawToken {
	var tokens []timeline.RawToken
	prevEnd := 0.0
	for _, seg := range segments {
		for _, word := range seg.Words {
			text := strings.TrimSpace(word.Word)
			if text == "" {
				continue
			}
			start := prevEnd
			if word.Start != nil {
				start = *word.Start
			}
			if n := len(tokens); n > 0 && start < tokens[n-1].Start {
				start = tokens[n-1].Start
			}
			end := start
			if word.End != nil && *word.End > start {
				end = *word.End
			}
			tokens = append(tokens, timeline.RawToken{Text: text, Start: start, Duration: end - start})
			prevEnd = end
		}
	}
	return tokens
}
