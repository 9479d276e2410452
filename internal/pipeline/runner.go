package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"subtitle2go/internal/config"
	"subtitle2go/internal/jobs"
	langpkg "subtitle2go/internal/language"
	"subtitle2go/internal/logging"
	"subtitle2go/internal/punctuation"
	"subtitle2go/internal/segmentation"
	"subtitle2go/internal/services"
	"subtitle2go/internal/services/audio"
	"subtitle2go/internal/services/decoder"
	"subtitle2go/internal/status"
	"subtitle2go/internal/subtitles"
	"subtitle2go/internal/textutil"
)

// closeTimeout bounds how long a finished job waits for status delivery.
const closeTimeout = 15 * time.Second

// AudioExtractor prepares decoder input.
type AudioExtractor interface {
	ExtractWAV(ctx context.Context, source, dest string) error
}

// Request describes one subtitle generation job.
type Request struct {
	MediaPath string
	// OutputBase is the subtitle path without extension. Defaults to the
	// media path without its extension.
	OutputBase string
	// Format overrides the configured subtitle format.
	Format string
	// Offset shifts every rendered timestamp, in seconds.
	Offset float64
	// JobID and FileID are generated when empty.
	JobID  string
	FileID string
	// KeepWorkDir leaves extracted audio and engine scratch files in place.
	KeepWorkDir bool
}

// Result reports a finished job.
type Result struct {
	JobID    string
	Path     string
	Cues     []subtitles.Cue
	Warnings int
}

// Runner executes subtitle jobs against one configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	languages config.Languages
	store     *jobs.Store
	decoder   decoder.Decoder
	extractor AudioExtractor
	restorer  punctuation.Restorer
	oracle    segmentation.Oracle
	sinks     []status.Sink

	language string
	models   config.LanguageModels
}

// Option customizes a Runner.
type Option func(*Runner)

// WithStore records jobs in store.
func WithStore(store *jobs.Store) Option { return func(r *Runner) { r.store = store } }

// WithDecoder replaces the configured engine.
func WithDecoder(d decoder.Decoder) Option { return func(r *Runner) { r.decoder = d } }

// WithExtractor replaces the ffmpeg audio extractor.
func WithExtractor(e AudioExtractor) Option { return func(r *Runner) { r.extractor = e } }

// WithRestorer replaces the punctuation helper.
func WithRestorer(p punctuation.Restorer) Option { return func(r *Runner) { r.restorer = p } }

// WithOracle replaces the segmentation helper.
func WithOracle(o segmentation.Oracle) Option { return func(r *Runner) { r.oracle = o } }

// WithLanguages replaces the language model table.
func WithLanguages(l config.Languages) Option { return func(r *Runner) { r.languages = l } }

// WithSinks adds status sinks next to the log sink.
func WithSinks(sinks ...status.Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// New resolves the language and engine from cfg and wires the external
// helpers. Options replace any helper before defaults are built.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "configuration is required", nil)
	}
	r := &Runner{cfg: cfg, logger: logging.NewComponentLogger(logger, "pipeline")}
	for _, opt := range opts {
		opt(r)
	}

	if r.languages == nil {
		langs, err := config.LoadLanguages(cfg.Paths.LanguagesFile)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "load languages", "", err)
		}
		r.languages = langs
	}

	engine, err := decoder.ParseEngine(cfg.Engine.Name)
	if err != nil {
		return nil, err
	}
	if err := r.resolveLanguage(engine); err != nil {
		return nil, err
	}

	if r.decoder == nil {
		r.decoder, err = decoder.New(engine, decoderOptions(cfg))
		if err != nil {
			return nil, err
		}
	}
	if r.extractor == nil {
		r.extractor = audio.NewExtractor(cfg.FFmpegBinary())
	}
	if r.restorer == nil && cfg.Punctuation.Enabled && engine.Strategy() == subtitles.StrategyWholeWord {
		r.restorer = punctuation.NewCommandRestorer(cfg.Punctuation.Command, r.models.Punctuation)
	}
	if r.oracle == nil {
		r.oracle = segmentation.NewCommandOracle(cfg.Segmentation.Command, r.models.Spacy)
	}
	return r, nil
}

// resolveLanguage normalizes the configured language and looks up its
// models. Kaldi cannot run without a model table entry; the other engines use
// the table for the segmenter only.
func (r *Runner) resolveLanguage(engine decoder.Engine) error {
	code, ok := langpkg.Resolve(r.cfg.Engine.Language)
	if !ok {
		return services.Wrap(services.ErrConfiguration, "pipeline", "resolve language",
			fmt.Sprintf("unknown language %q", r.cfg.Engine.Language), nil)
	}
	r.language = code
	if code == "" {
		if engine == decoder.EngineKaldi {
			return services.Wrap(services.ErrConfiguration, "pipeline", "resolve language",
				"kaldi requires an explicit language", nil)
		}
		return nil
	}
	models, err := r.languages.Lookup(code)
	if err != nil {
		if engine == decoder.EngineKaldi {
			return services.Wrap(services.ErrConfiguration, "pipeline", "resolve language", "", err)
		}
		r.logger.Debug("language not in model table; segmenter uses its default model",
			logging.String("language", code))
		return nil
	}
	if r.cfg.Kaldi.ModelYAML != "" {
		models.Kaldi = r.cfg.Kaldi.ModelYAML
	}
	r.models = models
	return nil
}

func decoderOptions(cfg *config.Config) decoder.Options {
	return decoder.Options{
		Kaldi: decoder.KaldiConfig{
			Command:       cfg.Kaldi.Command,
			BeamSize:      cfg.Kaldi.BeamSize,
			MaxActive:     cfg.Kaldi.MaxActive,
			AcousticScale: cfg.Kaldi.AcousticScale,
			LMScale:       cfg.Kaldi.LMScale,
			RNNRescore:    cfg.Kaldi.RNNRescore,
		},
		Whisper: decoder.WhisperConfig{
			Model:       cfg.Whisper.Model,
			CUDAEnabled: cfg.Whisper.CUDAEnabled,
			VADMethod:   cfg.Whisper.VADMethod,
			HFToken:     cfg.Whisper.HFToken,
			BeamSize:    cfg.Whisper.BeamSize,
		},
		Speechcatcher: decoder.SpeechcatcherConfig{
			Command:     cfg.Speechcatcher.Command,
			Model:       cfg.Speechcatcher.Model,
			ChunkLength: cfg.Speechcatcher.ChunkLength,
			Processes:   cfg.Speechcatcher.Processes,
			BeamSize:    cfg.Speechcatcher.BeamSize,
		},
	}
}

// jobRun carries per-job state through the stages.
type jobRun struct {
	id        string
	fileID    string
	mediaPath string
	workDir   string
	format    subtitles.Format
	reporter  *status.Reporter
	warnings  int
}

// Run processes one media file end to end. Alignment problems never fail the
// job; they are counted in Result.Warnings. Any returned error has already
// been recorded in the job registry and signalled to the status sinks.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	format, err := subtitles.ParseFormat(textutil.Ternary(strings.TrimSpace(req.Format) != "", req.Format, r.cfg.Subtitles.Format))
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "parse format", "", err)
	}
	mediaPath, err := filepath.Abs(strings.TrimSpace(req.MediaPath))
	if err != nil || strings.TrimSpace(req.MediaPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "resolve media", "media path is required", err)
	}
	if info, statErr := os.Stat(mediaPath); statErr != nil || info.IsDir() {
		return Result{}, services.Wrap(services.ErrNotFound, "pipeline", "resolve media",
			fmt.Sprintf("media file %s is not readable", mediaPath), statErr)
	}

	lock, err := jobs.AcquireLock(filepath.Join(r.cfg.Paths.StateDir, "locks"), mediaPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "lock media", "", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("failed to release media lock", logging.Error(err))
		}
	}()

	run, err := r.startJob(ctx, req, mediaPath, format)
	if err != nil {
		return Result{}, err
	}
	ctx = services.WithFileID(services.WithJobID(ctx, run.id), run.fileID)
	logger := logging.WithContext(ctx, r.logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := run.reporter.Close(closeCtx); err != nil {
			logger.Warn("status delivery did not finish", logging.Error(err))
		}
	}()
	if !req.KeepWorkDir {
		defer func() {
			if err := os.RemoveAll(run.workDir); err != nil {
				logger.Warn("failed to remove work dir", logging.String("path", run.workDir), logging.Error(err))
			}
		}()
	}

	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("media_path", mediaPath),
		logging.String("engine", r.decoder.Engine().Display()),
		logging.String("language", textutil.Ternary(r.language == "", "auto", r.language)),
		logging.String("format", string(format)),
		logging.Float64("offset", req.Offset),
	)

	result, err := r.execute(ctx, run, req)
	r.finishJob(ctx, run, result, err)
	if err != nil {
		return Result{JobID: run.id}, err
	}
	return result, nil
}

func (r *Runner) startJob(ctx context.Context, req Request, mediaPath string, format subtitles.Format) (*jobRun, error) {
	run := &jobRun{id: strings.TrimSpace(req.JobID), fileID: strings.TrimSpace(req.FileID), mediaPath: mediaPath, format: format}
	if run.fileID == "" {
		id, err := jobs.FileID(mediaPath)
		if err != nil {
			return nil, err
		}
		run.fileID = id
	}
	if r.store != nil {
		job, err := r.store.Create(ctx, jobs.NewJob{
			ID:        run.id,
			FileID:    run.fileID,
			MediaPath: mediaPath,
			Engine:    string(r.decoder.Engine()),
			Language:  r.language,
			Format:    string(format),
		})
		if err != nil {
			return nil, fmt.Errorf("record job: %w", err)
		}
		run.id = job.ID
	}
	if run.id == "" {
		run.id = uuid.NewString()
	}

	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	run.workDir = filepath.Join(r.cfg.Paths.WorkDir, textutil.SanitizeToken(stem)+"-"+run.fileID)

	sinks := []status.Sink{status.NewLogSink(r.logger)}
	sinks = append(sinks, status.Collect(
		status.NewCallbackSink(r.cfg.Status.CallbackURL, r.cfg.StatusTimeout()),
		status.NewRegistrySink(r.store),
	)...)
	sinks = append(sinks, r.sinks...)
	run.reporter = status.NewReporter(r.logger, status.Job{
		ID:        run.id,
		FileID:    run.fileID,
		MediaPath: mediaPath,
		StartTime: time.Now(),
	}, status.DefaultBuffer, sinks...)
	return run, nil
}

func (r *Runner) execute(ctx context.Context, run *jobRun, req Request) (Result, error) {
	audioPath := filepath.Join(run.workDir, "audio.wav")
	err := r.stage(ctx, run, "extract", "Extracting audio.", func(ctx context.Context) error {
		if err := os.MkdirAll(run.workDir, 0o755); err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		return r.extractor.ExtractWAV(ctx, run.mediaPath, audioPath)
	})
	if err != nil {
		return Result{}, err
	}

	var transcript decoder.Transcript
	decodeMessage := fmt.Sprintf("Decoding with %s.", r.decoder.Engine().Display())
	err = r.stage(ctx, run, "decode", decodeMessage, func(ctx context.Context) error {
		var err error
		transcript, err = r.decoder.Decode(ctx, decoder.Input{
			AudioPath:  audioPath,
			WorkDir:    run.workDir,
			Language:   r.language,
			KaldiModel: r.models.Kaldi,
		})
		return err
	})
	if err != nil {
		return Result{}, err
	}

	var cues []subtitles.Cue
	err = r.stage(ctx, run, "align", "Creating subtitle segments.", func(ctx context.Context) error {
		var err error
		cues, err = r.alignTranscript(ctx, run, transcript)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	var path string
	err = r.stage(ctx, run, "write", "Writing subtitle file.", func(ctx context.Context) error {
		base := strings.TrimSpace(req.OutputBase)
		if base == "" {
			base = strings.TrimSuffix(run.mediaPath, filepath.Ext(run.mediaPath))
		}
		var err error
		path, err = subtitles.WriteFile(base, cues, subtitles.RenderOptions{Format: run.format, Offset: req.Offset})
		if err != nil {
			return services.Wrap(services.ErrValidation, "write", "render subtitles", "", err)
		}
		if issues := subtitles.ValidateFile(path); len(issues) > 0 {
			run.warnings++
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "subtitle file validation reported issues", "subtitle_validation",
				logging.String("path", path),
				logging.String("issues", strings.Join(issues, "; ")),
			)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{JobID: run.id, Path: path, Cues: cues, Warnings: run.warnings}, nil
}

func (r *Runner) finishJob(ctx context.Context, run *jobRun, result Result, jobErr error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.WithContext(ctx, r.logger)
	outcome := jobs.Outcome{Status: jobs.StatusSucceeded, OutputPath: result.Path, Warnings: run.warnings}
	if jobErr != nil {
		outcome.Status = services.FailureStatus(jobErr)
		outcome.Error = jobErr.Error()
		run.reporter.Error(fmt.Sprintf("Job failed: %v", jobErr))
		logging.ErrorWithContext(logger, "job failed", "job_failed",
			logging.String("resolved_status", string(outcome.Status)),
			logging.Error(jobErr),
		)
	} else {
		if run.warnings > 0 {
			run.reporter.Warning(fmt.Sprintf("Job finished with %d alignment warnings.", run.warnings))
		}
		run.reporter.Success("Job finished successfully.")
		logger.Info("job finished",
			logging.String(logging.FieldEventType, "job_complete"),
			logging.String("output_path", result.Path),
			logging.Int("cues", len(result.Cues)),
			logging.Int("warnings", run.warnings),
		)
	}
	if r.store == nil {
		return
	}
	if err := r.store.Finish(ctx, run.id, outcome); err != nil && !errors.Is(err, jobs.ErrNotFound) {
		logger.Error("failed to record job outcome", logging.Error(err))
	}
}
