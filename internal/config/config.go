package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"subtitle2go/internal/segmentation"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
	// LanguagesFile overrides the built-in language model table.
	LanguagesFile string `toml:"languages_file"`
}

// Engine selects the speech recognizer and the spoken language.
type Engine struct {
	Name     string `toml:"name"`
	Language string `toml:"language"`
}

// Kaldi contains decoder options for the Kaldi helper.
type Kaldi struct {
	Command string `toml:"command"`
	// ModelYAML overrides the language table's Kaldi model.
	ModelYAML     string  `toml:"model_yaml"`
	BeamSize      int     `toml:"beam_size"`
	MaxActive     int     `toml:"max_active"`
	AcousticScale float64 `toml:"acoustic_scale"`
	LMScale       float64 `toml:"lm_scale"`
	RNNRescore    bool    `toml:"rnn_rescore"`
}

// Whisper contains WhisperX options.
type Whisper struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
	BeamSize    int    `toml:"beam_size"`
}

// Speechcatcher contains options for the streaming ESPnet decoder.
type Speechcatcher struct {
	Command     string `toml:"command"`
	Model       string `toml:"model"`
	ChunkLength int    `toml:"chunk_length"`
	Processes   int    `toml:"processes"`
	BeamSize    int    `toml:"beam_size"`
}

// Punctuation controls punctuation restoration of whole-word transcripts.
type Punctuation struct {
	Enabled bool   `toml:"enabled"`
	Command string `toml:"command"`
}

// Segmentation configures the line segmentation helper.
type Segmentation struct {
	Command string               `toml:"command"`
	Weights segmentation.Weights `toml:"weights"`
}

// Subtitles contains output defaults.
type Subtitles struct {
	Format        string  `toml:"format"`
	OffsetSeconds float64 `toml:"offset_seconds"`
}

// Status configures where job progress is reported.
type Status struct {
	CallbackURL string `toml:"callback_url"`
	// RequestTimeout is the callback timeout in seconds.
	RequestTimeout int  `toml:"request_timeout"`
	RecordJobs     bool `toml:"record_jobs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subtitle2go.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Engine        Engine        `toml:"engine"`
	Kaldi         Kaldi         `toml:"kaldi"`
	Whisper       Whisper       `toml:"whisper"`
	Speechcatcher Speechcatcher `toml:"speechcatcher"`
	Punctuation   Punctuation   `toml:"punctuation"`
	Segmentation  Segmentation  `toml:"segmentation"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Status        Status        `toml:"status"`
	Logging       Logging       `toml:"logging"`
}

const (
	userConfigPath    = "~/.config/subtitle2go/config.toml"
	projectConfigName = "subtitle2go.toml"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(userConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the work, log, and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StatusTimeout returns the callback request timeout.
func (c *Config) StatusTimeout() time.Duration {
	return time.Duration(c.Status.RequestTimeout) * time.Second
}

// FFmpegBinary returns the ffmpeg executable used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
