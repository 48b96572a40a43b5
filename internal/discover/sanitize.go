package discover

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxQueryLength caps queries when no limit is configured.
const DefaultMaxQueryLength = 256

// SanitizeQuery trims input, collapses runs of whitespace (newlines and tabs
// included) into single spaces and caps the result at maxLen bytes without
// splitting a UTF-8 sequence.
func SanitizeQuery(input string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxQueryLength
	}

	input = strings.Join(strings.Fields(input), " ")

	if len(input) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		input = input[:cut]
	}

	return strings.TrimSpace(input)
}
