package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
}

func TestCheckBinariesUsesFirstFieldOfCommandLine(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "helper")
	t.Setenv("PATH", binDir)

	results := CheckBinaries([]Requirement{
		{Name: "Punctuation", Command: "helper --model punc_de"},
		{Name: "Segmentation", Command: "helper segment"},
		{Name: "Empty", Command: "  "},
	})
	if len(results) != 2 {
		t.Fatalf("expected duplicate executable to collapse, got %#v", results)
	}
	if !results[0].Available || results[0].Command != "helper --model punc_de" {
		t.Fatalf("unexpected status: %#v", results[0])
	}
	if results[1].Available || results[1].Detail != "command not configured" {
		t.Fatalf("expected empty command to be unconfigured, got %#v", results[1])
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "ffmpeg", Available: true},
		{Name: "uvx", Available: false},
		{Name: "extra", Available: false, Optional: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "uvx" {
		t.Fatalf("Missing() = %#v", missing)
	}
}
