package analysis

// PauseSummary aggregates a pause list into summary statistics. It is fully
// recomputed from the pause list by [SummarizePauses] — there is no
// incremental mutation path.
type PauseSummary struct {
	// Pauses is the underlying list, ordered by start time.
	Pauses []Pause `json:"pauses,omitempty"`

	// TotalAudioSeconds is the clip duration the pauses were measured over.
	TotalAudioSeconds float64 `json:"total_audio_seconds"`

	// TotalSilenceSeconds is the summed duration of all qualifying pauses.
	TotalSilenceSeconds float64 `json:"total_silence_seconds"`

	// SilencePercent = TotalSilenceSeconds / TotalAudioSeconds × 100,
	// 0 when the clip has zero duration.
	SilencePercent float64 `json:"silence_percent"`

	// PauseCount is len(Pauses).
	PauseCount int `json:"pause_count"`

	// AveragePauseSeconds is the mean pause duration, 0 when there are none.
	AveragePauseSeconds float64 `json:"average_pause_seconds"`

	// LongestPauseSeconds is the maximum pause duration, 0 when there are none.
	LongestPauseSeconds float64 `json:"longest_pause_seconds"`
}

// SummarizePauses derives a [PauseSummary] from a pause list and the total
// audio duration. Pure aggregation: no I/O and no failure modes beyond
// division guards.
func SummarizePauses(pauses []Pause, totalAudioSeconds float64) PauseSummary {
	s := PauseSummary{
		Pauses:            pauses,
		TotalAudioSeconds: totalAudioSeconds,
		PauseCount:        len(pauses),
	}

	for _, p := range pauses {
		s.TotalSilenceSeconds += p.DurationSec
		if p.DurationSec > s.LongestPauseSeconds {
			s.LongestPauseSeconds = p.DurationSec
		}
	}
	if s.PauseCount > 0 {
		s.AveragePauseSeconds = s.TotalSilenceSeconds / float64(s.PauseCount)
	}
	if totalAudioSeconds > 0 {
		s.SilencePercent = s.TotalSilenceSeconds / totalAudioSeconds * 100
	}
	return s
}

// CountAtOrAbove returns how many pauses last at least thresholdSeconds.
// The threshold is caller-supplied — bucket boundaries are not baked in.
func (s PauseSummary) CountAtOrAbove(thresholdSeconds float64) int {
	n := 0
	for _, p := range s.Pauses {
		if p.DurationSec >= thresholdSeconds {
			n++
		}
	}
	return n
}
