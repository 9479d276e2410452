package timeline

import (
	"math"
	"testing"
)

func TestToSeconds(t *testing.T) {
	if got := ToSeconds(100, 1); got != 1 {
		t.Fatalf("ToSeconds(100, 1) = %v, want 1", got)
	}
	kaldi := []struct {
		frames float64
		want   float64
	}{
		{frames: 1000, want: 30},
		{frames: 120000, want: 3600},
		{frames: 1, want: 0.03},
	}
	for _, tt := range kaldi {
		if got := ToSeconds(tt.frames, KaldiFrameFactor); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ToSeconds(%v, kaldi) = %v, want %v", tt.frames, got, tt.want)
		}
	}
	if got := KaldiFrames.Convert(100); math.Abs(got-KaldiFrameFactor) > 1e-12 {
		t.Fatalf("KaldiFrames.Convert(100) = %v", got)
	}
	if got := Seconds.Convert(12.5); got != 12.5 {
		t.Fatalf("Seconds.Convert = %v", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		offset  float64
		sep     rune
		want    string
	}{
		{0, 0, '.', "00:00:00.000"},
		{1.5, 0, ',', "00:00:01,500"},
		{3661.007, 0, '.', "01:01:01.007"},
		{10.0, -0.1, ',', "00:00:09,900"},
		{12.0, -0.1, ',', "00:00:11,900"},
		{0.05, -0.1, ',', "00:00:00,000"},
		{59.9996, 0, '.', "00:01:00.000"},
		{360000, 0, '.', "100:00:00.000"},
	}
	for _, tt := range tests {
		got := FormatTimestamp(tt.seconds, tt.offset, tt.sep)
		if got != tt.want {
			t.Errorf("FormatTimestamp(%v, %v, %q) = %q, want %q", tt.seconds, tt.offset, tt.sep, got, tt.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	raws := []float64{0, 1, 7, 33.3, 99.99, 1234.5678, 65536, 999999.9, 5_000_000, 10_000_000}
	for _, factor := range []float64{1, KaldiFrameFactor, 100} {
		for _, raw := range raws {
			seconds := ToSeconds(raw, factor)
			formatted := FormatTimestamp(seconds, 0, '.')
			parsed, err := ParseTimestamp(formatted)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", formatted, err)
			}
			if math.Abs(parsed-seconds) > 0.001 {
				t.Errorf("round trip raw=%v factor=%v: %v -> %q -> %v", raw, factor, seconds, formatted, parsed)
			}
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "00:00:01", "aa:00:00,000", "00:61:00,000", "00:00:00,1000", "1:2,3"} {
		if _, err := ParseTimestamp(value); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", value)
		}
	}
}
