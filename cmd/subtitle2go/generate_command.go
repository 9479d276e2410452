package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subtitle2go/internal/config"
	"subtitle2go/internal/deps"
	"subtitle2go/internal/pipeline"
	"subtitle2go/internal/preflight"
	"subtitle2go/internal/subtitles"
	"subtitle2go/internal/textutil"
)

type generateFlags struct {
	engine      string
	language    string
	format      string
	modelYAML   string
	output      string
	id          string
	callbackURL string
	offset      float64
	keepWork    bool
	skipChecks  bool
	jsonOutput  bool

	rnnRescore    bool
	acousticScale float64
	asrBeamSize   int
	asrMaxActive  int

	segmentBeamSize         int
	idealTokenLen           int
	lenRewardFactor         float64
	sentenceEndRewardFactor float64
	commaEndRewardFactor    float64
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <media-file>",
		Short: "Transcribe a media file and write subtitles next to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyGenerateFlags(cmd, cfg, &flags); err != nil {
				return err
			}

			if !flags.skipChecks {
				if missing := deps.Missing(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
					names := make([]string, len(missing))
					for i, m := range missing {
						names[i] = fmt.Sprintf("%s (%s)", m.Name, m.Detail)
					}
					return fmt.Errorf("missing required programs: %s; run `subtitle2go check` for details", strings.Join(names, ", "))
				}
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			var opts []pipeline.Option
			if cfg.Status.RecordJobs {
				store, err := ctx.ensureStore()
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithStore(store))
			}

			runner, err := pipeline.New(cfg, logger, opts...)
			if err != nil {
				return err
			}

			offset := cfg.Subtitles.OffsetSeconds
			if cmd.Flags().Changed("offset") {
				offset = flags.offset
			}
			result, err := runner.Run(cmd.Context(), pipeline.Request{
				MediaPath:   args[0],
				OutputBase:  outputBase(flags.output),
				Format:      cfg.Subtitles.Format,
				Offset:      offset,
				JobID:       flags.id,
				KeepWorkDir: flags.keepWork,
			})
			if err != nil {
				if result.JobID != "" {
					return fmt.Errorf("job %s: %w", result.JobID, err)
				}
				return err
			}

			if flags.jsonOutput {
				return writeJSON(cmd, map[string]any{
					"job_id":   result.JobID,
					"path":     result.Path,
					"cues":     len(result.Cues),
					"warnings": result.Warnings,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d cues to %s\n", len(result.Cues), result.Path)
			if result.Warnings > 0 {
				fmt.Fprintf(out, "Finished with %d %s; see %s for details\n",
					result.Warnings, textutil.Ternary(result.Warnings == 1, "warning", "warnings"), cfg.Paths.LogDir)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.engine, "engine", "e", "", "ASR engine: kaldi, whisper or speechcatcher")
	f.StringVarP(&flags.language, "language", "l", "", "Language of the models (de, en, auto, ...)")
	f.StringVarP(&flags.format, "subtitle", "s", "", "Subtitle format: vtt or srt")
	f.StringVarP(&flags.modelYAML, "model-yaml", "m", "", "Kaldi model description overriding the language table")
	f.StringVarP(&flags.output, "output", "o", "", "Output path without extension (default: next to the media file)")
	f.StringVarP(&flags.id, "id", "i", "", "Job ID to report instead of a generated one")
	f.StringVar(&flags.callbackURL, "callback-url", "", "URL notified about progress, warnings and completion")
	f.Float64Var(&flags.offset, "offset", 0, "Seconds added to every timestamp (may be negative)")
	f.BoolVar(&flags.keepWork, "keep-work", false, "Keep extracted audio and engine output")
	f.BoolVar(&flags.skipChecks, "skip-checks", false, "Do not verify external programs before starting")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print the result as JSON")

	f.BoolVar(&flags.rnnRescore, "rnn-rescore", false, "Kaldi: rescore the decoder output with an RNN language model")
	f.Float64Var(&flags.acousticScale, "acoustic-scale", 0, "Kaldi: scale on the acoustic log-probabilities")
	f.IntVar(&flags.asrBeamSize, "asr-beam-size", 0, "Decoder beam size for the selected engine")
	f.IntVar(&flags.asrMaxActive, "asr-max-active", 0, "Kaldi: maximum number of active states")

	f.IntVar(&flags.segmentBeamSize, "segment-beam-size", 0, "Beam size of the segmentation search")
	f.IntVar(&flags.idealTokenLen, "ideal-token-len", 0, "Ideal number of tokens per subtitle line")
	f.Float64Var(&flags.lenRewardFactor, "len-reward-factor", 0, "Weight of staying close to the ideal length")
	f.Float64Var(&flags.sentenceEndRewardFactor, "sentence-end-reward-factor", 0, "Weight of splitting at sentence ends")
	f.Float64Var(&flags.commaEndRewardFactor, "comma-end-reward-factor", 0, "Weight of splitting at commas")

	return cmd
}

// applyGenerateFlags copies explicitly set flags over the loaded
// configuration and validates the result.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, flags *generateFlags) error {
	changed := cmd.Flags().Changed

	if changed("engine") {
		cfg.Engine.Name = strings.ToLower(strings.TrimSpace(flags.engine))
	}
	if changed("language") {
		cfg.Engine.Language = strings.ToLower(strings.TrimSpace(flags.language))
	}
	if changed("subtitle") {
		cfg.Subtitles.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(flags.format)), ".")
	}
	if changed("model-yaml") {
		path, err := config.ExpandPath(flags.modelYAML)
		if err != nil {
			return fmt.Errorf("resolve model path: %w", err)
		}
		cfg.Kaldi.ModelYAML = path
	}
	if changed("callback-url") {
		cfg.Status.CallbackURL = strings.TrimSpace(flags.callbackURL)
	}
	if changed("rnn-rescore") {
		cfg.Kaldi.RNNRescore = flags.rnnRescore
	}
	if changed("acoustic-scale") {
		cfg.Kaldi.AcousticScale = flags.acousticScale
	}
	if changed("asr-max-active") {
		cfg.Kaldi.MaxActive = flags.asrMaxActive
	}
	if changed("asr-beam-size") {
		switch cfg.Engine.Name {
		case "whisper":
			cfg.Whisper.BeamSize = flags.asrBeamSize
		case "speechcatcher":
			cfg.Speechcatcher.BeamSize = flags.asrBeamSize
		default:
			cfg.Kaldi.BeamSize = flags.asrBeamSize
		}
	}

	weights := &cfg.Segmentation.Weights
	if changed("segment-beam-size") {
		weights.BeamSize = flags.segmentBeamSize
	}
	if changed("ideal-token-len") {
		weights.IdealTokenLen = flags.idealTokenLen
	}
	if changed("len-reward-factor") {
		weights.LenRewardFactor = flags.lenRewardFactor
	}
	if changed("sentence-end-reward-factor") {
		weights.SentenceEndRewardFactor = flags.sentenceEndRewardFactor
	}
	if changed("comma-end-reward-factor") {
		weights.CommaEndRewardFactor = flags.commaEndRewardFactor
	}

	return cfg.Validate()
}

// outputBase strips a subtitle extension so "-o talk.vtt" and "-o talk"
// behave the same.
func outputBase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := subtitles.ParseFormat(filepath.Ext(value)); err == nil {
		return strings.TrimSuffix(value, filepath.Ext(value))
	}
	return value
}
