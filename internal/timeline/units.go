package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KaldiFrameFactor converts frame-subsampled Kaldi frame indices to
// centiseconds. Kaldi chain models subsample by three, so one frame index is
// 30ms of audio.
const KaldiFrameFactor = 3.0

// Units describes how raw engine time values map to seconds.
type Units struct {
	// Factor is multiplied with raw values and divided by 100.
	Factor float64
	// InSeconds skips conversion for engines that already report seconds.
	InSeconds bool
}

// Seconds is the identity conversion used by engines reporting seconds.
var Seconds = Units{Factor: 1, InSeconds: true}

// KaldiFrames converts Kaldi frame positions.
var KaldiFrames = Units{Factor: KaldiFrameFactor}

// Convert applies the unit rules to a raw engine value.
func (u Units) Convert(raw float64) float64 {
	if u.InSeconds {
		return raw
	}
	return ToSeconds(raw, u.Factor)
}

func (u Units) validate() error {
	if u.InSeconds {
		return nil
	}
	if u.Factor <= 0 || math.IsNaN(u.Factor) || math.IsInf(u.Factor, 0) {
		return fmt.Errorf("%w: unit factor %v must be positive", ErrMalformedTimeline, u.Factor)
	}
	return nil
}

// ToSeconds converts a raw engine time value using the unit factor.
func ToSeconds(raw, unitFactor float64) float64 {
	return raw * unitFactor / 100
}

// FormatTimestamp renders seconds+offset as HH:MM:SS<sep>mmm. Negative results
// clamp to zero.
func FormatTimestamp(seconds, offset float64, separator rune) string {
	value := seconds + offset
	if value < 0 || math.IsNaN(value) {
		value = 0
	}
	msTotal := int64(math.Round(value * 1000))
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, separator, millis)
}

// ParseTimestamp reads an HH:MM:SS,mmm or HH:MM:SS.mmm timestamp back into
// seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// WebVTT uses a period, SRT a comma.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
