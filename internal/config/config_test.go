package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subtitle2go/internal/config"
	"subtitle2go/internal/segmentation"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HF_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "subtitle2go", "config.toml"); resolved != want {
		t.Fatalf("resolved path = %q, want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "subtitle2go", "work"); cfg.Paths.WorkDir != want {
		t.Fatalf("work dir = %q, want %q", cfg.Paths.WorkDir, want)
	}
	if cfg.Engine.Name != "kaldi" || cfg.Engine.Language != "de" {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.Kaldi.BeamSize != 13 || cfg.Whisper.BeamSize != 5 || cfg.Speechcatcher.BeamSize != 10 {
		t.Fatalf("unexpected beam sizes: kaldi=%d whisper=%d speechcatcher=%d",
			cfg.Kaldi.BeamSize, cfg.Whisper.BeamSize, cfg.Speechcatcher.BeamSize)
	}
	if cfg.Segmentation.Weights != segmentation.DefaultWeights() {
		t.Fatalf("unexpected weights: %+v", cfg.Segmentation.Weights)
	}
	if cfg.Subtitles.Format != "vtt" {
		t.Fatalf("format = %q, want vtt", cfg.Subtitles.Format)
	}
	if cfg.StatusTimeout().Seconds() != 10 {
		t.Fatalf("status timeout = %v", cfg.StatusTimeout())
	}
}

func TestLoadFileOverridesAndNormalizes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[engine]
name = " Speechcatcher "
language = "DE"

[subtitles]
format = ".SRT"
offset_seconds = -0.5

[segmentation.weights]
beam_size = 4
ideal_token_len = 12
len_reward_factor = 1.0
sentence_end_reward_factor = 0.1
comma_end_reward_factor = 0.2

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected to load %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Engine.Name != "speechcatcher" || cfg.Engine.Language != "de" {
		t.Fatalf("engine not normalized: %+v", cfg.Engine)
	}
	if cfg.Subtitles.Format != "srt" || cfg.Subtitles.OffsetSeconds != -0.5 {
		t.Fatalf("subtitles not loaded: %+v", cfg.Subtitles)
	}
	if cfg.Segmentation.Weights.BeamSize != 4 || cfg.Segmentation.Weights.IdealTokenLen != 12 {
		t.Fatalf("weights not loaded: %+v", cfg.Segmentation.Weights)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Segmentation.Command == "" {
		t.Fatal("expected default segmentation command to survive partial override")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[engine]\nnmae = \"kaldi\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"engine", func(c *config.Config) { c.Engine.Name = "vosk" }, "engine.name"},
		{"format", func(c *config.Config) { c.Subtitles.Format = "ass" }, "subtitles.format"},
		{"weights", func(c *config.Config) { c.Segmentation.Weights.BeamSize = 0 }, "segmentation.weights"},
		{"callback scheme", func(c *config.Config) { c.Status.CallbackURL = "ftp://example.com" }, "status.callback_url"},
		{"pyannote token", func(c *config.Config) {
			c.Engine.Name = "whisper"
			c.Whisper.VADMethod = "pyannote"
			c.Whisper.HFToken = ""
		}, "whisper.hf_token"},
		{"punctuation command", func(c *config.Config) { c.Punctuation.Command = "" }, "punctuation.command"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestSampleConfigDecodes(t *testing.T) {
	cfg := config.Default()
	decoder := toml.NewDecoder(strings.NewReader(config.SampleConfig()))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		t.Fatalf("decode sample config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if string(data) != config.SampleConfig() {
		t.Fatal("sample content mismatch")
	}
}

func TestBuiltInLanguages(t *testing.T) {
	langs, err := config.LoadLanguages("")
	if err != nil {
		t.Fatalf("LoadLanguages returned error: %v", err)
	}
	de, err := langs.Lookup("DE")
	if err != nil {
		t.Fatalf("Lookup(de) returned error: %v", err)
	}
	if de.Kaldi == "" || de.Spacy == "" || !de.Uppercase {
		t.Fatalf("unexpected German models: %+v", de)
	}
	if _, err := langs.Lookup("xx"); !errors.Is(err, config.ErrUnknownLanguage) {
		t.Fatalf("Lookup(xx) = %v, want ErrUnknownLanguage", err)
	}
}

func TestLoadLanguagesResolvesRelativeModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "languages.yaml")
	content := "fr:\n  kaldi: models/fr.yaml\n  punctuation: punc_fr\n  spacy: fr_core_news_lg\n  uppercase: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write languages: %v", err)
	}
	langs, err := config.LoadLanguages(path)
	if err != nil {
		t.Fatalf("LoadLanguages returned error: %v", err)
	}
	fr, err := langs.Lookup("fr")
	if err != nil {
		t.Fatalf("Lookup(fr) returned error: %v", err)
	}
	if want := filepath.Join(dir, "models", "fr.yaml"); fr.Kaldi != want {
		t.Fatalf("kaldi model = %q, want %q", fr.Kaldi, want)
	}
	if got := langs.Codes(); len(got) != 1 || got[0] != "fr" {
		t.Fatalf("codes = %v", got)
	}
}
