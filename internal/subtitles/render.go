package subtitles

import (
	"errors"
	"fmt"
	"strings"

	"subtitle2go/internal/timeline"
)

// ErrUnsupportedFormat is returned for output formats other than SRT and VTT.
var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// Format names a subtitle file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

const vttHeader = "WEBVTT\n\n"

// ParseFormat resolves a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))) {
	case FormatSRT:
		return FormatSRT, nil
	case FormatVTT:
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// Separator returns the fractional-second separator used in timestamps.
func (f Format) Separator() rune {
	if f == FormatVTT {
		return '.'
	}
	return ','
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// RenderOptions controls cue rendering.
type RenderOptions struct {
	Format Format
	// Offset shifts every timestamp; negative results clamp to zero.
	Offset float64
}

// Render formats cues as subtitle file content.
func Render(cues []Cue, opts RenderOptions) (string, error) {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return "", err
	}
	sep := format.Separator()

	var b strings.Builder
	if format == FormatVTT {
		b.WriteString(vttHeader)
	}
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			timeline.FormatTimestamp(cue.Start, opts.Offset, sep),
			timeline.FormatTimestamp(cue.End, opts.Offset, sep),
			sanitizeCueText(cue.Text),
		)
	}
	return b.String(), nil
}

// sanitizeCueText keeps cue text on one line and away from the timing arrow.
func sanitizeCueText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.ReplaceAll(text, "-->", "->")
}
