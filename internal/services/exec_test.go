package services_test

import (
	"errors"
	"reflect"
	"testing"

	"subtitle2go/internal/services"
)

func TestSplitCommand(t *testing.T) {
	name, args, err := services.SplitCommand("  python3 -m segment_text  --json ")
	if err != nil {
		t.Fatalf("SplitCommand: %v", err)
	}
	if name != "python3" || !reflect.DeepEqual(args, []string{"-m", "segment_text", "--json"}) {
		t.Fatalf("SplitCommand = %q %q", name, args)
	}
	if _, _, err := services.SplitCommand("   "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
