package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateStatus(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEngine() error {
	switch c.Engine.Name {
	case "kaldi", "whisper", "speechcatcher":
	default:
		return fmt.Errorf("engine.name must be one of kaldi, whisper, speechcatcher (got %q)", c.Engine.Name)
	}
	switch c.Whisper.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("whisper.vad_method must be silero or pyannote (got %q)", c.Whisper.VADMethod)
	}
	if c.Engine.Name == "whisper" && c.Whisper.VADMethod == "pyannote" && c.Whisper.HFToken == "" {
		return errors.New("whisper.hf_token must be set when whisper.vad_method is pyannote")
	}
	if c.Kaldi.LMScale < 0 {
		return errors.New("kaldi.lm_scale must not be negative")
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.Command == "" {
		return errors.New("segmentation.command must be set")
	}
	if err := c.Segmentation.Weights.Validate(); err != nil {
		return fmt.Errorf("segmentation.weights: %w", err)
	}
	if c.Punctuation.Enabled && c.Punctuation.Command == "" {
		return errors.New("punctuation.command must be set when punctuation.enabled is true")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	switch c.Subtitles.Format {
	case "vtt", "srt":
		return nil
	default:
		return fmt.Errorf("subtitles.format must be vtt or srt (got %q)", c.Subtitles.Format)
	}
}

func (c *Config) validateStatus() error {
	if c.Status.CallbackURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Status.CallbackURL)
	if err != nil {
		return fmt.Errorf("status.callback_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("status.callback_url must use http or https (got %q)", c.Status.CallbackURL)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("status.callback_url must include a host (got %q)", c.Status.CallbackURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
}
