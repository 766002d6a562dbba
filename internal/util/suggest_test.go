package util

import "testing"

func TestClosest(t *testing.T) {
	candidates := []string{"woodland", "desert", "urban", "marpat-woodland", "digital-urban"}

	tests := []struct {
		input    string
		expected string
	}{
		{"woodlnd", "woodland"},
		{"DESRT", "desert"},
		{"urbn", "urban"},
		{"marpat-woodlan", "marpat-woodland"},
		{"digtal-urban", "digital-urban"},
		{"woodland", "woodland"},
		{"carbon-fiber", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := Closest(tc.input, candidates, 2); got != tc.expected {
				t.Errorf("Closest(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestClosest_TiesGoToFirst(t *testing.T) {
	if got := Closest("ab", []string{"ac", "ad"}, 1); got != "ac" {
		t.Errorf("Closest() = %q, want %q", got, "ac")
	}
	if got := Closest("x", nil, 3); got != "" {
		t.Errorf("Closest() with no candidates = %q", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"mosaic", "mosiac", 2}, // transposition counts as 2 in standard Levenshtein
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			result := levenshteinDistance(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}
