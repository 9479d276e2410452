package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"subtitle2go/internal/jobs"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a job error to the status persisted in the job registry.
// Cancellation is recorded as killed so it is not mistaken for a decode fault.
func FailureStatus(err error) jobs.Status {
	switch {
	case err == nil:
		return jobs.StatusSucceeded
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return jobs.StatusKilled
	default:
		return jobs.StatusFailed
	}
}

// ErrCanceled marks a job stopped by its caller.
var ErrCanceled = errors.New("canceled")

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
