package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// FillerMatch records the hits for one configured filler pattern.
type FillerMatch struct {
	// Pattern is the configured filler word or phrase, lowercase.
	Pattern string `json:"pattern"`

	// Occurrences is the number of non-overlapping hits.
	Occurrences int `json:"occurrences"`

	// WordEquivalent = Occurrences × number of words in Pattern, so a
	// two-word phrase contributes 2 per hit and the filler percentage stays
	// comparable to a plain word-level metric.
	WordEquivalent int `json:"word_equivalent"`
}

// FillerMetrics is the outcome of filler detection over one transcript.
type FillerMetrics struct {
	// SingleWordHits counts tokens that are configured single-word fillers.
	SingleWordHits int `json:"single_word_hits"`

	// PhraseWordEquivalents is the summed word-equivalent contribution of
	// all phrase hits.
	PhraseWordEquivalents int `json:"phrase_word_equivalents"`

	// WordEquivalents = SingleWordHits + PhraseWordEquivalents.
	WordEquivalents int `json:"word_equivalents"`

	// ByPattern maps each configured pattern with at least one hit to its
	// match record.
	ByPattern map[string]FillerMatch `json:"by_pattern,omitempty"`
}

// fillerPhrase is a compiled multi-word pattern.
type fillerPhrase struct {
	text      string
	wordCount int
	re        *regexp.Regexp
}

// FillerDetector counts filler words and phrases in normalized transcript
// text. Patterns are configuration, compiled once at construction; Detect is
// read-only and safe for concurrent use.
type FillerDetector struct {
	words   map[string]struct{}
	phrases []fillerPhrase
}

// NewFillerDetector compiles the given single-word and multi-word filler
// patterns. Patterns are lowercased; a phrase that cannot be compiled into a
// boundary-anchored expression is a configuration error reported here, never
// at analysis time.
func NewFillerDetector(words, phrases []string) (*FillerDetector, error) {
	d := &FillerDetector{
		words: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		d.words[w] = struct{}{}
	}

	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		// \b anchors keep "you know" from matching inside "you knowledge".
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(p) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("%w: filler phrase %q: %v", ErrInvalidConfig, p, err)
		}
		d.phrases = append(d.phrases, fillerPhrase{
			text:      p,
			wordCount: len(strings.Fields(p)),
			re:        re,
		})
	}
	return d, nil
}

// Detect counts filler hits in one transcript. tokens must be the
// [Tokenize] output for text; single words are counted by set membership per
// token, phrases by non-overlapping boundary-anchored matches against the
// lowercased raw text.
func (d *FillerDetector) Detect(text string, tokens []string) FillerMetrics {
	m := FillerMetrics{
		ByPattern: make(map[string]FillerMatch),
	}

	for _, tok := range tokens {
		if _, ok := d.words[tok]; !ok {
			continue
		}
		m.SingleWordHits++
		match := m.ByPattern[tok]
		match.Pattern = tok
		match.Occurrences++
		match.WordEquivalent = match.Occurrences
		m.ByPattern[tok] = match
	}

	lower := strings.ToLower(text)
	for _, p := range d.phrases {
		hits := len(p.re.FindAllStringIndex(lower, -1))
		if hits == 0 {
			continue
		}
		equiv := hits * p.wordCount
		m.PhraseWordEquivalents += equiv
		m.ByPattern[p.text] = FillerMatch{
			Pattern:        p.text,
			Occurrences:    hits,
			WordEquivalent: equiv,
		}
	}

	m.WordEquivalents = m.SingleWordHits + m.PhraseWordEquivalents
	return m
}
