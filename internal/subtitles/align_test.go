package subtitles

import (
	"math"
	"testing"

	"subtitle2go/internal/timeline"
)

func mustTimeline(t *testing.T, tokens ...timeline.Token) *timeline.Timeline {
	t.Helper()
	tl, err := timeline.FromTokens(tokens)
	if err != nil {
		t.Fatalf("build timeline: %v", err)
	}
	return tl
}

func tok(text string, start, duration float64) timeline.Token {
	return timeline.Token{Text: text, Start: start, Duration: duration}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAlignSubWordJoinsPieces(t *testing.T) {
	tl := mustTimeline(t, tok("hel", 0.0, 0.5), tok("lo", 0.5, 0.3), tok("world", 1.0, 0.6))
	got := NewAligner(nil).AlignSubWord([]string{"hello world"}, tl)
	if got.Warnings != 0 {
		t.Fatalf("expected no warnings, got %d", got.Warnings)
	}
	if len(got.Cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got.Cues))
	}
	cue := got.Cues[0]
	if cue.Text != "hello world" || !approx(cue.Start, 0.0) || !approx(cue.End, 1.6) {
		t.Fatalf("unexpected cue %+v", cue)
	}
}

func TestAlignSubWordRecoversFromMismatch(t *testing.T) {
	tl := mustTimeline(t, tok("a", 0.1, 0.1), tok("b", 0.2, 0.1), tok("c", 0.3, 0.1))
	got := NewAligner(nil).AlignSubWord([]string{"abX c"}, tl)
	if got.Warnings != 1 {
		t.Fatalf("expected exactly 1 warning, got %d", got.Warnings)
	}
	if len(got.Cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got.Cues))
	}
	if !approx(got.Cues[0].Start, 0.1) || !approx(got.Cues[0].End, 0.4) {
		t.Fatalf("unexpected span %+v", got.Cues[0])
	}
}

func TestAlignSubWordBoundaryMarkerAndCase(t *testing.T) {
	tl := mustTimeline(t,
		tok("▁hallo", 0.5, 0.4),
		tok("▁wel", 1.0, 0.2),
		tok("t", 1.2, 0.2),
		tok(".", 1.4, 0.1),
		tok("▁wie", 2.0, 0.3),
		tok("▁geht", 2.3, 0.3),
		tok("'s", 2.6, 0.2),
		tok("?", 2.8, 0.1),
	)
	lines := []string{"Hallo Welt.", "Wie geht's?"}
	got := NewAligner(nil).AlignSubWord(lines, tl)
	if got.Warnings != 0 {
		t.Fatalf("expected no warnings, got %d", got.Warnings)
	}
	if len(got.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", got.Cues)
	}
	if !approx(got.Cues[0].Start, 0.5) || !approx(got.Cues[0].End, 1.5) {
		t.Fatalf("first cue span %+v", got.Cues[0])
	}
	if !approx(got.Cues[1].Start, 2.0) || !approx(got.Cues[1].End, 2.9) {
		t.Fatalf("second cue span %+v", got.Cues[1])
	}
}

func TestAlignSubWordForceAdvancesUnknownToken(t *testing.T) {
	tl := mustTimeline(t, tok("zzz", 0.1, 0.1), tok("ok", 0.2, 0.3))
	got := NewAligner(nil).AlignSubWord([]string{"ok"}, tl)
	if got.Warnings != 1 {
		t.Fatalf("expected 1 warning, got %d", got.Warnings)
	}
	if len(got.Cues) != 1 || !approx(got.Cues[0].Start, 0.1) || !approx(got.Cues[0].End, 0.5) {
		t.Fatalf("unexpected cues %+v", got.Cues)
	}
}

func TestAlignSubWordLineFaultSkipsLine(t *testing.T) {
	tl := mustTimeline(t, tok("one", 0.1, 0.2), tok("two", 0.4, 0.2))
	var messages []string
	aligner := NewAligner(nil, WithNotifier(func(msg string) { messages = append(messages, msg) }))
	got := aligner.AlignSubWord([]string{"one two", "three"}, tl)
	if len(got.Cues) != 1 {
		t.Fatalf("expected only the first line to produce a cue, got %+v", got.Cues)
	}
	if got.Warnings != 1 {
		t.Fatalf("expected 1 warning, got %d", got.Warnings)
	}
	if len(messages) != 1 {
		t.Fatalf("expected one notification, got %v", messages)
	}
}

func TestAlignSubWordSkipsEmptyLines(t *testing.T) {
	tl := mustTimeline(t, tok("hi", 0.1, 0.2))
	got := NewAligner(nil).AlignSubWord([]string{"hi", "", "  "}, tl)
	if len(got.Cues) != 1 || got.Warnings != 0 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAlignWholeWordSkipsSentinelAndClamps(t *testing.T) {
	tl := mustTimeline(t,
		tok("the", 0, 0.2),
		tok("quick", 0.3, 0.2),
		tok("brown", 0.6, 0.2),
		tok("fox", 0.9, 0.3),
	)
	got := NewAligner(nil).AlignWholeWord([]string{"the quick", "brown fox jumps"}, tl)
	if len(got.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", got.Cues)
	}
	first := got.Cues[0]
	if !approx(first.Start, 0.3) || !approx(first.End, 0.5) {
		t.Fatalf("first cue span %+v", first)
	}
	second := got.Cues[1]
	if !approx(second.Start, 0.6) || !approx(second.End, 1.2) {
		t.Fatalf("second cue span %+v", second)
	}
	if got.Warnings != 1 {
		t.Fatalf("expected the clamp to count one warning, got %d", got.Warnings)
	}
}

func TestAlignWholeWordKeepsTimelineStartWhenClampedOntoSentinel(t *testing.T) {
	tl := mustTimeline(t,
		tok("a", 0.5, 0.1),
		tok("b", 0.7, 0.1),
		tok("<eps>", 0, 0.05),
	)
	got := NewAligner(nil).AlignWholeWord([]string{"a b", "c"}, tl)
	if len(got.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", got.Cues)
	}
	if second := got.Cues[1]; !approx(second.Start, 0) || !approx(second.End, 0.05) {
		t.Fatalf("second cue span %+v, want 0 to 0.05", second)
	}
	if got.Warnings != 1 {
		t.Fatalf("expected one clamp warning, got %d", got.Warnings)
	}
}

func TestAlignWholeWordEmptyTimeline(t *testing.T) {
	tl := mustTimeline(t)
	got := NewAligner(nil).AlignWholeWord([]string{"hello"}, tl)
	if len(got.Cues) != 0 || got.Warnings != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAlignCuesAreMonotonic(t *testing.T) {
	tl := mustTimeline(t,
		tok("a", 0.1, 0.1), tok("b", 0.2, 0.1), tok("c", 0.3, 0.1),
		tok("d", 0.4, 0.1), tok("e", 0.5, 0.1), tok("f", 0.6, 0.1),
	)
	lines := []string{"a b", "c", "d e f g h"}
	for _, strategy := range []Strategy{StrategyWholeWord, StrategySubWord} {
		got, err := NewAligner(nil).Align(lines, tl, strategy)
		if err != nil {
			t.Fatalf("%s: %v", strategy, err)
		}
		for i, cue := range got.Cues {
			if cue.End < cue.Start {
				t.Fatalf("%s: cue %d ends before it starts: %+v", strategy, i, cue)
			}
			if i > 0 && cue.Start < got.Cues[i-1].Start {
				t.Fatalf("%s: cue %d starts before previous cue", strategy, i)
			}
		}
	}
}

func TestAlignRejectsUnknownStrategy(t *testing.T) {
	if _, err := NewAligner(nil).Align(nil, mustTimeline(t), Strategy("bogus")); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Fatal("expected ParseStrategy error")
	}
	if s, err := ParseStrategy(" Sub_Word "); err != nil || s != StrategySubWord {
		t.Fatalf("ParseStrategy = %q, %v", s, err)
	}
}
