package timeline

import (
	"errors"
	"math"
	"testing"
)

func TestBuildConvertsAndOffsetsChunks(t *testing.T) {
	chunks := []Chunk{
		{Offset: 0, Tokens: []RawToken{{Text: "guten", Start: 0, Duration: 10}, {Text: "tag", Start: 12, Duration: 8}}},
		{Offset: 100, Tokens: []RawToken{{Text: "<UNK>", Start: 5, Duration: 4}}},
	}
	tl, err := Build(chunks, Units{Factor: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tl.Len())
	}
	second := tl.At(1)
	if math.Abs(second.Start-0.36) > 1e-9 || math.Abs(second.Duration-0.24) > 1e-9 {
		t.Fatalf("token 1 = %+v", second)
	}
	third := tl.At(2)
	if third.Text != "UNK" {
		t.Fatalf("unknown marker not normalized: %q", third.Text)
	}
	if math.Abs(third.Start-3.15) > 1e-9 {
		t.Fatalf("chunk offset not applied: start %v", third.Start)
	}
	if got := tl.Text(); got != "guten tag UNK" {
		t.Fatalf("Text = %q", got)
	}
}

func TestBuildRejectsMalformedTiming(t *testing.T) {
	tests := []struct {
		name   string
		chunks []Chunk
		units  Units
	}{
		{"negative start", []Chunk{{Tokens: []RawToken{{Text: "a", Start: -1}}}}, Seconds},
		{"negative duration", []Chunk{{Tokens: []RawToken{{Text: "a", Start: 1, Duration: -0.5}}}}, Seconds},
		{"decreasing", []Chunk{{Tokens: []RawToken{{Text: "a", Start: 2}, {Text: "b", Start: 1}}}}, Seconds},
		{"decreasing across chunks", []Chunk{
			{Offset: 10, Tokens: []RawToken{{Text: "a", Start: 1}}},
			{Offset: 5, Tokens: []RawToken{{Text: "b", Start: 1}}},
		}, Seconds},
		{"nan", []Chunk{{Tokens: []RawToken{{Text: "a", Start: math.NaN()}}}}, Seconds},
		{"zero factor", []Chunk{{Tokens: []RawToken{{Text: "a", Start: 1}}}}, Units{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.chunks, tt.units)
			if !errors.Is(err, ErrMalformedTimeline) {
				t.Fatalf("expected ErrMalformedTimeline, got %v", err)
			}
		})
	}
}

func TestBuildAllowsZeroSentinel(t *testing.T) {
	tl, err := Build([]Chunk{{Tokens: []RawToken{
		{Text: "a", Start: 0},
		{Text: "b", Start: 1.2, Duration: 0.3},
		{Text: "c", Start: 0},
		{Text: "d", Start: 1.6, Duration: 0.2},
	}}}, Seconds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Len() != 4 {
		t.Fatalf("Len = %d", tl.Len())
	}
}

func TestSliceAndWithTextsCopy(t *testing.T) {
	tl, err := FromTokens([]Token{{Text: "eins", Start: 0.5, Duration: 0.2}, {Text: "zwei", Start: 1, Duration: 0.4}})
	if err != nil {
		t.Fatalf("FromTokens: %v", err)
	}
	part := tl.Slice(0, 1)
	part[0].Text = "changed"
	if tl.At(0).Text != "eins" {
		t.Fatal("Slice must return a copy")
	}
	updated, err := tl.WithTexts([]string{"Eins,", "zwei."})
	if err != nil {
		t.Fatalf("WithTexts: %v", err)
	}
	if updated.At(1).Text != "zwei." || updated.At(1).Start != 1 || tl.At(1).Text != "zwei" {
		t.Fatalf("WithTexts mismatch: %+v / %+v", updated.At(1), tl.At(1))
	}
	if _, err := tl.WithTexts([]string{"x"}); err == nil {
		t.Fatal("expected length error")
	}
	if math.Abs(tl.Duration()-1.4) > 1e-9 {
		t.Fatalf("Duration = %v", tl.Duration())
	}
}
