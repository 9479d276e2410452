// Package audio prepares decoder input with ffmpeg.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subtitle2go/internal/services"
)

// FFmpegCommand is the default ffmpeg binary.
const FFmpegCommand = "ffmpeg"

// Extractor converts media files to 16 kHz mono PCM WAV.
type Extractor struct {
	ffmpegBinary string
	run          services.CommandRunner
}

// NewExtractor returns an extractor using ffmpegBinary, or ffmpeg from PATH
// when empty.
func NewExtractor(ffmpegBinary string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Extractor{ffmpegBinary: ffmpegBinary, run: services.ExecRunner}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner services.CommandRunner) {
	e.run = runner
}

// ExtractWAV writes the first audio stream of source to dest.
func (e *Extractor) ExtractWAV(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "audio", "extract", "source and destination are required", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrNotFound, "audio", "extract", fmt.Sprintf("media file %s not readable", source), err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract audio: ensure dir: %w", err)
	}
	if _, err := e.run(ctx, nil, e.ffmpegBinary, buildExtractArgs(source, dest)...); err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "extract", "ffmpeg extraction failed", err)
	}
	return nil
}

func buildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}
