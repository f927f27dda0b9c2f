package analysis

// WordCount pairs a content word with its total occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RepetitionMetrics holds both repetition measures over one transcript.
type RepetitionMetrics struct {
	// ImmediateCount is the number of adjacent equal token pairs
	// ("because because" contributes 1, "is is is" contributes 2).
	// Detects stutter-style repeats.
	ImmediateCount int `json:"immediate_count"`

	// ExcessOccurrences sums (count − 1) over every distinct content word
	// after stopword removal. Detects topic or word overuse rather than
	// stutter.
	ExcessOccurrences int `json:"excess_occurrences"`

	// TopWords ranks the most frequent content words, highest count first,
	// ties broken by first appearance in the transcript.
	TopWords []WordCount `json:"top_words,omitempty"`
}

// ImmediateRepetitions scans tokens pairwise and counts positions where a
// token equals its predecessor. Tokens are already lowercased by [Tokenize],
// so the comparison is case-insensitive by construction.
func ImmediateRepetitions(tokens []string) int {
	count := 0
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == tokens[i-1] {
			count++
		}
	}
	return count
}

// FrequencyRepetition removes stopwords from tokens, tallies the remaining
// content words, and reports the summed excess occurrences plus the topN
// most frequent words. topN ≤ 0 disables the ranking.
func FrequencyRepetition(tokens []string, stopwords map[string]struct{}, topN int) (excess int, top []WordCount) {
	counts := make(map[string]int)
	var order []string // distinct content words in first-appearance order

	for _, tok := range tokens {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	for _, n := range counts {
		if n > 1 {
			excess += n - 1
		}
	}

	if topN <= 0 || len(order) == 0 {
		return excess, nil
	}

	// Selection over the first-appearance list keeps the tie order stable
	// without a comparison function on map iteration order.
	ranked := make([]WordCount, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, WordCount{Word: w, Count: counts[w]})
	}
	// Stable insertion sort by descending count; order slice already encodes
	// first-appearance precedence for ties.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return excess, ranked
}
