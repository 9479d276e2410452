package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"subtitle2go/internal/config"
	"subtitle2go/internal/deps"
	"subtitle2go/internal/language"
	"subtitle2go/internal/services/decoder"
	"subtitle2go/internal/subtitles"
)

const callbackProbeTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckLanguageModels verifies the configured language resolves to a model
// set. Kaldi needs its model description on disk; the other engines only need
// the segmenter model and fall back to auto detection.
func CheckLanguageModels(cfg *config.Config) Result {
	const name = "Language models"

	langs, err := config.LoadLanguages(cfg.Paths.LanguagesFile)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	engine, err := decoder.ParseEngine(cfg.Engine.Name)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	code, ok := language.Resolve(cfg.Engine.Language)
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("unknown language %q", cfg.Engine.Language)}
	}
	if code == "" {
		if engine == decoder.EngineKaldi {
			return Result{Name: name, Detail: "kaldi requires an explicit language"}
		}
		return Result{Name: name, Passed: true, Detail: "auto detection"}
	}
	models, err := langs.Lookup(code)
	if err != nil {
		if engine == decoder.EngineKaldi {
			return Result{Name: name, Detail: err.Error()}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no segmenter model, using default)", code)}
	}
	if engine != decoder.EngineKaldi {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", code, models.Spacy)}
	}
	modelPath := models.Kaldi
	if cfg.Kaldi.ModelYAML != "" {
		modelPath = cfg.Kaldi.ModelYAML
	}
	if _, err := os.Stat(modelPath); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: kaldi model %s: %v)", code, modelPath, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", code, modelPath)}
}

// CheckCallback verifies the status callback host answers HTTP. Any response
// counts as reachable since the endpoint only has to accept PUT.
func CheckCallback(ctx context.Context, callbackURL string) Result {
	const name = "Status callback"

	target := strings.TrimSpace(callbackURL)
	if target == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, callbackProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, target, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	client := &http.Client{Timeout: callbackProbeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	defer resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (%d)", resp.StatusCode)}
}

// CheckSystemDeps evaluates the external programs the configured engine
// and its helpers need.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction",
		},
	}

	engine, err := decoder.ParseEngine(cfg.Engine.Name)
	if err != nil {
		return deps.CheckBinaries(requirements)
	}
	switch engine {
	case decoder.EngineKaldi:
		requirements = append(requirements, deps.Requirement{
			Name:        "Kaldi decoder",
			Command:     cfg.Kaldi.Command,
			Description: "Required for kaldi transcription",
		})
	case decoder.EngineWhisper:
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     decoder.UVXCommand,
			Description: "Required for WhisperX transcription",
		})
	case decoder.EngineSpeechcatcher:
		requirements = append(requirements, deps.Requirement{
			Name:        "Speechcatcher",
			Command:     cfg.Speechcatcher.Command,
			Description: "Required for speechcatcher transcription",
		})
	}
	if cfg.Punctuation.Enabled && engine.Strategy() == subtitles.StrategyWholeWord {
		requirements = append(requirements, deps.Requirement{
			Name:        "Punctuation restorer",
			Command:     cfg.Punctuation.Command,
			Description: "Restores punctuation on whole-word transcripts",
		})
	}
	requirements = append(requirements, deps.Requirement{
		Name:        "Segmenter",
		Command:     cfg.Segmentation.Command,
		Description: "Splits the transcript into subtitle lines",
	})
	return deps.CheckBinaries(requirements)
}

func summarizeProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "probe timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "probe timed out (host unreachable)"
	}
	return err.Error()
}
