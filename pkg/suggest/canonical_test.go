package suggest

import "testing"

func TestCanonicalize(t *testing.T) {
	testCases := []struct {
		input       string
		expected    string
		description string
	}{
		{"  HelLo,  ;  World!  ", "hello world", "Punctuation and extra spaces"},
		{"Red Shoes", "red shoes", "Capitals"},
		{"red\t\nshoes", "red shoes", "Tabs and newlines collapse"},
		{"appLe 123", "apple 123", "Digits survive"},
		{"", "", "Empty input"},
		{"   ", "", "Whitespace only"},
		{"!!! ;;; ...", "", "Punctuation only"},
		{"l'été à Paris", "lété à paris", "Unicode letters survive"},
		{"a  b   c", "a b c", "Multiple runs of spaces"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := Canonicalize(tc.input); got != tc.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
