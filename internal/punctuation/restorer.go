package punctuation

import (
	"context"
	"fmt"
	"strings"

	"subtitle2go/internal/services"
	"subtitle2go/internal/timeline"
)

// Restorer adds casing and punctuation to a space-joined word string.
type Restorer interface {
	Restore(ctx context.Context, text string) (string, error)
}

// CommandRestorer runs an external restoration helper. The helper reads the
// plain text on stdin and writes the punctuated text to stdout.
type CommandRestorer struct {
	command string
	model   string
	run     services.CommandRunner
}

// NewCommandRestorer builds a restorer for the configured helper command and
// model name.
func NewCommandRestorer(command, model string) *CommandRestorer {
	return &CommandRestorer{command: command, model: model, run: services.ExecRunner}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *CommandRestorer) WithCommandRunner(runner services.CommandRunner) {
	r.run = runner
}

// Restore implements Restorer.
func (r *CommandRestorer) Restore(ctx context.Context, text string) (string, error) {
	name, args, err := services.SplitCommand(r.command)
	if err != nil {
		return "", fmt.Errorf("punctuation: %w", err)
	}
	if model := strings.TrimSpace(r.model); model != "" {
		args = append(args, "--model", model)
	}
	out, err := r.run(ctx, []byte(text), name, args...)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "punctuation", "restore", "helper failed", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Punctuate restores punctuation for the whole timeline and merges it back.
// Lowercase folds the input first for models trained on lowercase text.
func Punctuate(ctx context.Context, restorer Restorer, tl *timeline.Timeline, lowercase bool) (*timeline.Timeline, error) {
	text := tl.Text()
	if lowercase {
		text = strings.ToLower(text)
	}
	restored, err := restorer.Restore(ctx, text)
	if err != nil {
		return nil, err
	}
	return Merge(tl, SplitRestored(restored))
}
