package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// named lists the languages that can also be given by their English name.
var named = []string{
	"ar", "cs", "da", "de", "el", "en", "es", "fi", "fr", "hi", "hu", "it",
	"ja", "ko", "nl", "no", "pl", "pt", "ru", "sv", "tr", "uk", "zh",
}

var (
	englishNames = display.English.Languages()
	byName       map[string]string
)

func init() {
	byName = make(map[string]string, len(named))
	for _, code := range named {
		base := language.MustParseBase(code)
		byName[strings.ToLower(englishNames.Name(base))] = code
	}
}

// ToISO2 converts a language code (ISO 639-1, 639-2/T or 639-2/B) or an
// English language name to ISO 639-1. Unknown two-letter input passes through
// unchanged; anything else without a two-letter form returns "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if iso, ok := byName[code]; ok {
		return iso
	}
	base, err := language.ParseBase(code)
	if err != nil {
		if len(code) == 2 {
			return code
		}
		return ""
	}
	if iso := base.String(); len(iso) == 2 {
		return iso
	}
	return ""
}

// DisplayName returns the English name of a language code. Empty input gives
// "Unknown" and unrecognized codes are returned uppercased.
func DisplayName(code string) string {
	if Auto(code) {
		return autoLabel(code)
	}
	if base, err := language.ParseBase(ToISO2(code)); err == nil {
		if name := englishNames.Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

func autoLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	return "Auto-detect"
}

// Auto reports whether code asks the engine to detect or ignore the language.
func Auto(code string) bool {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "", "auto", "ignore":
		return true
	}
	return false
}

// Resolve normalizes a user-supplied language to the ISO 639-1 key used by
// the language table. Auto values resolve to the empty string; ok is false
// when the input names no known language.
func Resolve(code string) (iso string, ok bool) {
	if Auto(code) {
		return "", true
	}
	iso = ToISO2(code)
	return iso, iso != ""
}
