package decoder

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"subtitle2go/internal/services"
	"subtitle2go/internal/timeline"
)

// KaldiConfig controls the Kaldi nnet3 helper.
type KaldiConfig struct {
	// Command is the helper command line, e.g. "python3 kaldi_decode.py".
	Command       string
	BeamSize      int
	MaxActive     int
	AcousticScale float64
	LMScale       float64
	RNNRescore    bool
}

// Kaldi decodes with a Kaldi nnet3 chain model. The helper splits audio into
// speech segments and reports word alignments in feature frames per segment.
type Kaldi struct {
	cfg KaldiConfig
	run services.CommandRunner
}

// kaldiOutput is the helper's stdout document. Segment offsets are in
// centiseconds; token positions are in frames.
type kaldiOutput struct {
	Segments []struct {
		Offset float64             `json:"offset"`
		Tokens []timeline.RawToken `json:"tokens"`
	} `json:"segments"`
}

// Engine implements Decoder.
func (k *Kaldi) Engine() Engine { return EngineKaldi }

// Decode implements Decoder.
func (k *Kaldi) Decode(ctx context.Context, in Input) (Transcript, error) {
	if err := requireAudio(EngineKaldi, in); err != nil {
		return Transcript{}, err
	}
	if strings.TrimSpace(in.KaldiModel) == "" {
		return Transcript{}, services.Wrap(services.ErrConfiguration, "kaldi", "decode", "no kaldi model configured for language", nil)
	}
	name, args, err := services.SplitCommand(k.cfg.Command)
	if err != nil {
		return Transcript{}, err
	}
	args = append(args, k.buildArgs(in)...)
	out, err := k.run(ctx, nil, name, args...)
	if err != nil {
		return Transcript{}, decodeFailed(EngineKaldi, err)
	}
	var payload kaldiOutput
	if err := json.Unmarshal(out, &payload); err != nil {
		return Transcript{}, invalidOutput(EngineKaldi, err)
	}

	chunks := make([]timeline.Chunk, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		chunks = append(chunks, timeline.Chunk{
			Offset: seg.Offset / timeline.KaldiFrameFactor,
			Tokens: seg.Tokens,
		})
	}
	return Transcript{
		Engine:   EngineKaldi,
		Strategy: EngineKaldi.Strategy(),
		Units:    timeline.KaldiFrames,
		Chunks:   chunks,
	}, nil
}

func (k *Kaldi) buildArgs(in Input) []string {
	beam := k.cfg.BeamSize
	if beam <= 0 {
		beam = EngineKaldi.DefaultBeamSize()
	}
	maxActive := k.cfg.MaxActive
	if maxActive <= 0 {
		maxActive = 16000
	}
	acoustic := k.cfg.AcousticScale
	if acoustic <= 0 {
		acoustic = 1.0
	}
	lm := k.cfg.LMScale
	if lm <= 0 {
		lm = 0.5
	}
	args := []string{
		"--model-yaml", in.KaldiModel,
		"--beam", strconv.Itoa(beam),
		"--max-active", strconv.Itoa(maxActive),
		"--acoustic-scale", strconv.FormatFloat(acoustic, 'f', -1, 64),
		"--lm-scale", strconv.FormatFloat(lm, 'f', -1, 64),
	}
	if k.cfg.RNNRescore {
		args = append(args, "--rnn-rescore")
	}
	if in.WorkDir != "" {
		args = append(args, "--work-dir", in.WorkDir)
	}
	return append(args, in.AudioPath)
}
