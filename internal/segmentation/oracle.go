package segmentation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"subtitle2go/internal/services"
)

// Oracle splits text into ordered subtitle lines.
type Oracle interface {
	Segment(ctx context.Context, text string, weights Weights) ([]string, error)
}

// request is the JSON document written to the helper's stdin.
type request struct {
	Text    string  `json:"text"`
	Model   string  `json:"model,omitempty"`
	Weights Weights `json:"weights"`
}

// CommandOracle runs the segmenter helper. The helper reads a JSON request on
// stdin and prints a JSON array of strings.
type CommandOracle struct {
	command string
	model   string
	run     services.CommandRunner
}

// NewCommandOracle builds an oracle for the configured helper and language
// model.
func NewCommandOracle(command, model string) *CommandOracle {
	return &CommandOracle{command: command, model: model, run: services.ExecRunner}
}

// WithCommandRunner sets a custom command runner (for testing).
func (o *CommandOracle) WithCommandRunner(runner services.CommandRunner) {
	o.run = runner
}

// Segment implements Oracle.
func (o *CommandOracle) Segment(ctx context.Context, text string, weights Weights) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := weights.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "segmentation", "validate weights", err.Error(), nil)
	}
	name, args, err := services.SplitCommand(o.command)
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}
	payload, err := json.Marshal(request{Text: text, Model: o.model, Weights: weights})
	if err != nil {
		return nil, fmt.Errorf("encode segmentation request: %w", err)
	}
	out, err := o.run(ctx, payload, name, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "segmentation", "run helper", "segmenter failed", err)
	}
	var lines []string
	if err := json.Unmarshal(out, &lines); err != nil {
		return nil, services.Wrap(services.ErrValidation, "segmentation", "decode output", "segmenter returned invalid JSON", err)
	}
	return lines, nil
}
