package search

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase word tokens. Letters and digits are
// kept; everything else separates tokens. Single-rune tokens are dropped
// since they carry almost no signal for listing search.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := normalizeToken(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len([]rune(s)) < 2 {
		return ""
	}
	return s
}
