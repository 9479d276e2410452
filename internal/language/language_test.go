package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"de", "de"},
		{"EN", "en"},
		{" fr ", "fr"},
		{"deu", "de"},
		{"eng", "en"},
		{"fra", "fr"},
		{"jpn", "ja"},
		{"german", "de"},
		{"English", "en"},
		{"DUTCH", "nl"},
		{"xy", "xy"},
		{"klingon", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO2(tt.input); got != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"de", "German"},
		{"eng", "English"},
		{"auto", "Auto-detect"},
		{"", "Unknown"},
		{"xy", "XY"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		iso   string
		ok    bool
	}{
		{"de", "de", true},
		{"German", "de", true},
		{"auto", "", true},
		{"ignore", "", true},
		{"", "", true},
		{"klingon", "", false},
	}
	for _, tt := range tests {
		iso, ok := Resolve(tt.input)
		if iso != tt.iso || ok != tt.ok {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.input, iso, ok, tt.iso, tt.ok)
		}
	}
}
