package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"subtitle2go/internal/jobs"
	"subtitle2go/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "decode", "kaldi", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"decode", "kaldi", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "render", "format", "unsupported", nil)
	if status := services.FailureStatus(configErr); status != jobs.StatusFailed {
		t.Fatalf("expected failed for configuration error, got %s", status)
	}
	canceled := fmt.Errorf("decode: %w", context.Canceled)
	if status := services.FailureStatus(canceled); status != jobs.StatusKilled {
		t.Fatalf("expected killed for canceled job, got %s", status)
	}
	if status := services.FailureStatus(nil); status != jobs.StatusSucceeded {
		t.Fatalf("expected succeeded for nil error, got %s", status)
	}
}
