package config

import "subtitle2go/internal/segmentation"

const (
	defaultWorkDir              = "~/.local/share/subtitle2go/work"
	defaultLogDir               = "~/.local/share/subtitle2go/logs"
	defaultStateDir             = "~/.local/share/subtitle2go"
	defaultEngine               = "kaldi"
	defaultLanguage             = "de"
	defaultKaldiCommand         = "subtitle2go-kaldi"
	defaultKaldiBeamSize        = 13
	defaultKaldiMaxActive       = 16000
	defaultKaldiAcousticScale   = 1.0
	defaultKaldiLMScale         = 0.5
	defaultWhisperModel         = "small"
	defaultWhisperVADMethod     = "silero"
	defaultWhisperBeamSize      = 5
	defaultSpeechcatcherCommand = "speechcatcher"
	defaultSpeechcatcherModel   = "de_streaming_transformer_xl"
	defaultSpeechcatcherChunk   = 8192
	defaultSpeechcatcherBeam    = 10
	defaultPunctuationCommand   = "subtitle2go-punctuate"
	defaultSegmentationCommand  = "subtitle2go-segment"
	defaultSubtitleFormat       = "vtt"
	defaultStatusTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Engine: Engine{
			Name:     defaultEngine,
			Language: defaultLanguage,
		},
		Kaldi: Kaldi{
			Command:       defaultKaldiCommand,
			BeamSize:      defaultKaldiBeamSize,
			MaxActive:     defaultKaldiMaxActive,
			AcousticScale: defaultKaldiAcousticScale,
			LMScale:       defaultKaldiLMScale,
		},
		Whisper: Whisper{
			Model:     defaultWhisperModel,
			VADMethod: defaultWhisperVADMethod,
			BeamSize:  defaultWhisperBeamSize,
		},
		Speechcatcher: Speechcatcher{
			Command:     defaultSpeechcatcherCommand,
			Model:       defaultSpeechcatcherModel,
			ChunkLength: defaultSpeechcatcherChunk,
			BeamSize:    defaultSpeechcatcherBeam,
		},
		Punctuation: Punctuation{
			Enabled: true,
			Command: defaultPunctuationCommand,
		},
		Segmentation: Segmentation{
			Command: defaultSegmentationCommand,
			Weights: segmentation.DefaultWeights(),
		},
		Subtitles: Subtitles{
			Format: defaultSubtitleFormat,
		},
		Status: Status{
			RequestTimeout: defaultStatusTimeout,
			RecordJobs:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
