package analysis

// Pace is a words-per-minute reading. WPM over a zero-duration clip is not
// computable; Valid distinguishes that state from a genuine 0 WPM so callers
// never mistake "no duration data" for "no speech".
type Pace struct {
	// WordsPerMinute is meaningful only when Valid is true.
	WordsPerMinute float64 `json:"words_per_minute"`

	// Valid reports whether the clip had a positive duration.
	Valid bool `json:"valid"`
}

// CalculatePace computes words per minute from a word count and the clip
// duration in seconds. A non-positive duration yields an invalid Pace —
// never an epsilon-floored division.
func CalculatePace(wordCount int, durationSeconds float64) Pace {
	if durationSeconds <= 0 {
		return Pace{}
	}
	return Pace{
		WordsPerMinute: float64(wordCount) / (durationSeconds / 60),
		Valid:          true,
	}
}
