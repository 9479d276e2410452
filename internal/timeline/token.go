package timeline

// Token is one timed unit in seconds.
type Token struct {
	Text     string
	Start    float64
	Duration float64
}

// End returns the exclusive end of the token span.
func (t Token) End() float64 {
	return t.Start + t.Duration
}

// RawToken is a token as reported by a decoding engine, in engine units.
type RawToken struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Chunk is an independently timed run of engine tokens. Offset is expressed in
// the same raw units as the token positions and is added to every start.
// Text is the engine's own rendering of the chunk, when it reports one.
type Chunk struct {
	Offset float64    `json:"offset"`
	Text   string     `json:"text,omitempty"`
	Tokens []RawToken `json:"tokens"`
}
