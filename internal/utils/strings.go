package utils

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is the preview length used when callers pass a
// non-positive limit to [TruncateString].
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen bytes for log output, keeping
// the cut on a rune boundary and recording the original length in the
// suffix. A non-positive maxLen falls back to [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}
