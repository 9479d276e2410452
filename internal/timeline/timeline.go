package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedTimeline marks engine output whose timing cannot be trusted.
// It is never recoverable: the job must stop before producing output.
var ErrMalformedTimeline = errors.New("malformed timeline")

var unknownReplacer = strings.NewReplacer("<UNK>", "UNK", "<unk>", "UNK")

// Timeline is an ordered, immutable token sequence.
type Timeline struct {
	tokens []Token
}

// Build converts engine chunks into a single timeline. Chunks are concatenated
// in order; each chunk offset is added to its token starts before conversion.
// A start of exactly zero is the engine sentinel for "time not yet available"
// and is exempt from the ordering check.
func Build(chunks []Chunk, units Units) (*Timeline, error) {
	if err := units.validate(); err != nil {
		return nil, err
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Tokens)
	}
	tokens := make([]Token, 0, total)
	lastStart := math.Inf(-1)
	for c, chunk := range chunks {
		if invalidNumber(chunk.Offset) {
			return nil, fmt.Errorf("%w: chunk %d offset %v", ErrMalformedTimeline, c, chunk.Offset)
		}
		for i, raw := range chunk.Tokens {
			if invalidNumber(raw.Start) || invalidNumber(raw.Duration) {
				return nil, fmt.Errorf("%w: chunk %d token %d has negative or invalid timing (start=%v duration=%v)",
					ErrMalformedTimeline, c, i, raw.Start, raw.Duration)
			}
			start := units.Convert(raw.Start + chunk.Offset)
			duration := units.Convert(raw.Duration)
			if start != 0 {
				if start < lastStart {
					return nil, fmt.Errorf("%w: chunk %d token %d starts at %.3fs before previous %.3fs",
						ErrMalformedTimeline, c, i, start, lastStart)
				}
				lastStart = start
			}
			tokens = append(tokens, Token{
				Text:     normalizeText(raw.Text),
				Start:    start,
				Duration: duration,
			})
		}
	}
	return &Timeline{tokens: tokens}, nil
}

// FromTokens builds a timeline from tokens already expressed in seconds.
func FromTokens(tokens []Token) (*Timeline, error) {
	raw := make([]RawToken, len(tokens))
	for i, tok := range tokens {
		raw[i] = RawToken{Text: tok.Text, Start: tok.Start, Duration: tok.Duration}
	}
	return Build([]Chunk{{Tokens: raw}}, Seconds)
}

func invalidNumber(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

func normalizeText(text string) string {
	text = norm.NFC.String(text)
	return strings.TrimSpace(unknownReplacer.Replace(text))
}

// Len returns the number of tokens.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tokens)
}

// At returns the token at index i. It panics when i is out of range, like a
// slice index.
func (t *Timeline) At(i int) Token {
	return t.tokens[i]
}

// Slice returns a copy of tokens [i, j).
func (t *Timeline) Slice(i, j int) []Token {
	out := make([]Token, j-i)
	copy(out, t.tokens[i:j])
	return out
}

// Words returns the token texts in order.
func (t *Timeline) Words() []string {
	if t == nil {
		return nil
	}
	words := make([]string, len(t.tokens))
	for i, tok := range t.tokens {
		words[i] = tok.Text
	}
	return words
}

// Text joins the token texts with single spaces.
func (t *Timeline) Text() string {
	return strings.Join(t.Words(), " ")
}

// Duration returns the end of the last token, or zero for an empty timeline.
func (t *Timeline) Duration() float64 {
	if t.Len() == 0 {
		return 0
	}
	return t.tokens[len(t.tokens)-1].End()
}

// WithTexts returns a new timeline with identical timing and replaced texts.
// Callers must pass exactly Len() texts.
func (t *Timeline) WithTexts(texts []string) (*Timeline, error) {
	if len(texts) != t.Len() {
		return nil, fmt.Errorf("replace texts: have %d tokens, got %d texts", t.Len(), len(texts))
	}
	tokens := make([]Token, len(t.tokens))
	for i, tok := range t.tokens {
		tok.Text = normalizeText(texts[i])
		tokens[i] = tok
	}
	return &Timeline{tokens: tokens}, nil
}
