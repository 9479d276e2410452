package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFile renders cues and writes them to basePath plus the format
// extension. The format is checked before anything touches the filesystem and
// the file is replaced atomically, so a failed write never leaves a partial
// subtitle behind.
func WriteFile(basePath string, cues []Cue, opts RenderOptions) (string, error) {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return "", err
	}
	opts.Format = format
	content, err := Render(cues, opts)
	if err != nil {
		return "", err
	}
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return "", fmt.Errorf("subtitle output path is required")
	}
	target := strings.TrimSuffix(basePath, opts.Format.Extension()) + opts.Format.Extension()
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitle dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp subtitle: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write subtitle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close subtitle: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("chmod subtitle: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", fmt.Errorf("finalize subtitle: %w", err)
	}
	return target, nil
}
