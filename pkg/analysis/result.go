package analysis

import "slices"

// PauseBucket reports how many pauses reached one configured threshold.
type PauseBucket struct {
	ThresholdSeconds float64 `json:"threshold_seconds"`
	Count            int     `json:"count"`
}

// Result is the terminal aggregate of one analysis run. It is created once
// per run, never mutated afterwards, and owned by the caller that requested
// the analysis.
type Result struct {
	// DurationSeconds is the decoded clip length.
	DurationSeconds float64 `json:"duration_seconds"`

	// TranscriptText is the transcript the text metrics were computed over,
	// exactly as supplied.
	TranscriptText string `json:"transcript_text"`

	// WordCount is the number of word tokens; numerals are not words.
	WordCount int `json:"word_count"`

	// SentenceCount is the number of sentence segments.
	SentenceCount int `json:"sentence_count"`

	// Pace is the words-per-minute reading, invalid when the clip has no
	// duration.
	Pace Pace `json:"pace"`

	// Fillers holds the filler hit counts; FillerPercent is
	// word-equivalents over word count × 100, 0 for an empty transcript.
	Fillers       FillerMetrics `json:"fillers"`
	FillerPercent float64       `json:"filler_percent"`

	// Repetition holds both repetition measures; RepetitionPercent is the
	// immediate-repeat count over word count × 100, 0 for an empty
	// transcript.
	Repetition        RepetitionMetrics `json:"repetition"`
	RepetitionPercent float64           `json:"repetition_percent"`

	// PauseSummary aggregates the detected pauses; LongPauses counts them
	// against the configured thresholds.
	PauseSummary PauseSummary  `json:"pause_summary"`
	LongPauses   []PauseBucket `json:"long_pauses,omitempty"`
}

// Record flattens the result into nested maps and slices of plain numbers
// and strings, suitable for serialization to any reporting format.
func (r *Result) Record() map[string]any {
	// Map iteration order is randomised; sort by pattern text so repeated
	// flattenings of one result are byte-identical.
	patterns := make([]string, 0, len(r.Fillers.ByPattern))
	for p := range r.Fillers.ByPattern {
		patterns = append(patterns, p)
	}
	slices.Sort(patterns)

	fillerPatterns := make([]map[string]any, 0, len(patterns))
	for _, p := range patterns {
		m := r.Fillers.ByPattern[p]
		fillerPatterns = append(fillerPatterns, map[string]any{
			"pattern":         m.Pattern,
			"occurrences":     m.Occurrences,
			"word_equivalent": m.WordEquivalent,
		})
	}

	topWords := make([]map[string]any, 0, len(r.Repetition.TopWords))
	for _, w := range r.Repetition.TopWords {
		topWords = append(topWords, map[string]any{
			"word":  w.Word,
			"count": w.Count,
		})
	}

	longPauses := make([]map[string]any, 0, len(r.LongPauses))
	for _, b := range r.LongPauses {
		longPauses = append(longPauses, map[string]any{
			"threshold_seconds": b.ThresholdSeconds,
			"count":             b.Count,
		})
	}

	var wpm any
	if r.Pace.Valid {
		wpm = r.Pace.WordsPerMinute
	}

	return map[string]any{
		"duration_seconds": r.DurationSeconds,
		"transcript_text":  r.TranscriptText,
		"word_count":       r.WordCount,
		"sentence_count":   r.SentenceCount,
		"words_per_minute": wpm,
		"fillers": map[string]any{
			"word_equivalents":        r.Fillers.WordEquivalents,
			"single_word_hits":        r.Fillers.SingleWordHits,
			"phrase_word_equivalents": r.Fillers.PhraseWordEquivalents,
			"percent":                 r.FillerPercent,
			"patterns":                fillerPatterns,
		},
		"repetition": map[string]any{
			"immediate_count":    r.Repetition.ImmediateCount,
			"excess_occurrences": r.Repetition.ExcessOccurrences,
			"percent":            r.RepetitionPercent,
			"top_words":          topWords,
		},
		"pauses": map[string]any{
			"total_silence_seconds": r.PauseSummary.TotalSilenceSeconds,
			"silence_percent":       r.PauseSummary.SilencePercent,
			"count":                 r.PauseSummary.PauseCount,
			"average_seconds":       r.PauseSummary.AveragePauseSeconds,
			"longest_seconds":       r.PauseSummary.LongestPauseSeconds,
			"long_pauses":           longPauses,
		},
	}
}
