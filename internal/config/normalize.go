package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeKaldi()
	c.normalizeWhisper()
	c.normalizeSpeechcatcher()
	c.Punctuation.Command = strings.TrimSpace(c.Punctuation.Command)
	c.Segmentation.Command = strings.TrimSpace(c.Segmentation.Command)
	c.Subtitles.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Subtitles.Format)), ".")
	if c.Subtitles.Format == "" {
		c.Subtitles.Format = defaultSubtitleFormat
	}
	c.Status.CallbackURL = strings.TrimSpace(c.Status.CallbackURL)
	if c.Status.RequestTimeout <= 0 {
		c.Status.RequestTimeout = defaultStatusTimeout
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LanguagesFile, err = expandPath(strings.TrimSpace(c.Paths.LanguagesFile)); err != nil {
		return fmt.Errorf("paths.languages_file: %w", err)
	}
	if c.Kaldi.ModelYAML, err = expandPath(strings.TrimSpace(c.Kaldi.ModelYAML)); err != nil {
		return fmt.Errorf("kaldi.model_yaml: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Name = strings.ToLower(strings.TrimSpace(c.Engine.Name))
	if c.Engine.Name == "" {
		c.Engine.Name = defaultEngine
	}
	c.Engine.Language = strings.ToLower(strings.TrimSpace(c.Engine.Language))
}

func (c *Config) normalizeKaldi() {
	c.Kaldi.Command = strings.TrimSpace(c.Kaldi.Command)
	if c.Kaldi.Command == "" {
		c.Kaldi.Command = defaultKaldiCommand
	}
	if c.Kaldi.BeamSize <= 0 {
		c.Kaldi.BeamSize = defaultKaldiBeamSize
	}
	if c.Kaldi.MaxActive <= 0 {
		c.Kaldi.MaxActive = defaultKaldiMaxActive
	}
	if c.Kaldi.AcousticScale <= 0 {
		c.Kaldi.AcousticScale = defaultKaldiAcousticScale
	}
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.VADMethod = strings.ToLower(strings.TrimSpace(c.Whisper.VADMethod))
	if c.Whisper.VADMethod == "" {
		c.Whisper.VADMethod = defaultWhisperVADMethod
	}
	c.Whisper.HFToken = strings.TrimSpace(c.Whisper.HFToken)
	if c.Whisper.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Whisper.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Whisper.HFToken = strings.TrimSpace(value)
		}
	}
	if c.Whisper.BeamSize <= 0 {
		c.Whisper.BeamSize = defaultWhisperBeamSize
	}
}

func (c *Config) normalizeSpeechcatcher() {
	c.Speechcatcher.Command = strings.TrimSpace(c.Speechcatcher.Command)
	if c.Speechcatcher.Command == "" {
		c.Speechcatcher.Command = defaultSpeechcatcherCommand
	}
	c.Speechcatcher.Model = strings.TrimSpace(c.Speechcatcher.Model)
	if c.Speechcatcher.Model == "" {
		c.Speechcatcher.Model = defaultSpeechcatcherModel
	}
	if c.Speechcatcher.ChunkLength <= 0 {
		c.Speechcatcher.ChunkLength = defaultSpeechcatcherChunk
	}
	if c.Speechcatcher.BeamSize <= 0 {
		c.Speechcatcher.BeamSize = defaultSpeechcatcherBeam
	}
	if c.Speechcatcher.Processes < 0 {
		c.Speechcatcher.Processes = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
