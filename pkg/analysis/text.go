package analysis

import (
	"regexp"
	"strings"
)

var (
	// tokenPattern extracts maximal runs of ASCII letters and apostrophes.
	// The rule is deliberately locale-independent: numerals and other
	// symbols never form tokens, so word counts reflect spoken words.
	tokenPattern = regexp.MustCompile(`[a-z']+`)

	// sentencePattern splits on runs of sentence-terminal punctuation.
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Tokenize lowercases text and returns its word tokens in order of
// appearance. Duplicates are preserved — repetition analysis depends on
// position. Tokenization is total: it is defined for every input string,
// including empty and arbitrary Unicode, and an input with no matching runs
// yields an empty slice.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Sentences splits raw text on sentence-terminal punctuation (one or more
// of . ! ?) and returns the non-empty trimmed segments.
func Sentences(text string) []string {
	parts := sentencePattern.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
