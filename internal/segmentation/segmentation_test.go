package segmentation

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"subtitle2go/internal/services"
)

func TestCommandOracleSendsRequest(t *testing.T) {
	oracle := NewCommandOracle("python3 segment.py --json", "de_core_news_lg")
	var gotName string
	var gotArgs []string
	var gotReq request
	oracle.WithCommandRunner(func(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		if err := json.Unmarshal(stdin, &gotReq); err != nil {
			t.Fatalf("decode stdin: %v", err)
		}
		return []byte(`["Hallo Welt.", "Wie geht es?"]`), nil
	})

	lines, err := oracle.Segment(context.Background(), "Hallo Welt. Wie geht es?", DefaultWeights())
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Hallo Welt.", "Wie geht es?"}) {
		t.Fatalf("unexpected lines %q", lines)
	}
	if gotName != "python3" || !reflect.DeepEqual(gotArgs, []string{"segment.py", "--json"}) {
		t.Fatalf("unexpected command %s %v", gotName, gotArgs)
	}
	if gotReq.Model != "de_core_news_lg" || gotReq.Weights != DefaultWeights() {
		t.Fatalf("unexpected request %+v", gotReq)
	}
}

func TestCommandOracleErrors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		weights Weights
		out     string
		runErr  error
		marker  error
	}{
		{name: "empty command", command: "", weights: DefaultWeights(), marker: services.ErrConfiguration},
		{name: "bad weights", command: "seg", weights: Weights{}, marker: services.ErrConfiguration},
		{name: "helper failure", command: "seg", weights: DefaultWeights(), runErr: errors.New("boom"), marker: services.ErrExternalTool},
		{name: "bad json", command: "seg", weights: DefaultWeights(), out: "not json", marker: services.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			oracle := NewCommandOracle(tc.command, "")
			oracle.WithCommandRunner(func(context.Context, []byte, string, ...string) ([]byte, error) {
				return []byte(tc.out), tc.runErr
			})
			_, err := oracle.Segment(context.Background(), "text", tc.weights)
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
		})
	}
}

func TestCommandOracleSkipsEmptyText(t *testing.T) {
	oracle := NewCommandOracle("seg", "")
	oracle.WithCommandRunner(func(context.Context, []byte, string, ...string) ([]byte, error) {
		t.Fatal("helper must not run for empty text")
		return nil, nil
	})
	lines, err := oracle.Segment(context.Background(), "   ", DefaultWeights())
	if err != nil || lines != nil {
		t.Fatalf("expected nil, nil; got %v, %v", lines, err)
	}
}

func TestVerifyCoverage(t *testing.T) {
	ok := VerifyCoverage("Hello  world. How are you?", []string{"hello world.", "How are", "you?"})
	if !ok.OK || ok.Offset != -1 {
		t.Fatalf("expected full coverage, got %+v", ok)
	}
	bad := VerifyCoverage("hello world", []string{"hello", "there"})
	if bad.OK || bad.Offset != 6 {
		t.Fatalf("expected divergence at 6, got %+v", bad)
	}
	if bad.Similarity <= 0 || bad.Similarity >= 1 {
		t.Fatalf("expected partial similarity, got %v", bad.Similarity)
	}
}
