package subtitles

// Cue is one rendered subtitle entry. Times are seconds.
type Cue struct {
	Text  string
	Start float64
	End   float64
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}
