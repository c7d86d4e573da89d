package validate

import (
	"strings"
	"unicode"
)

// SanitizeLine cleans one line of shell input: trims whitespace, drops a
// trailing carriage return and removes control characters.
func SanitizeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	line = strings.ReplaceAll(line, "\t", " ")
	return strings.TrimSpace(StripControlChars(line))
}

// StripControlChars drops control runes other than newline and tab.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// TruncateString shortens s to at most maxLen runes, marking the cut with
// "..." when there is room for it.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
