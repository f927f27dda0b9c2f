package analysis

// ThresholdMode selects how the silence threshold is derived.
type ThresholdMode string

const (
	// ThresholdAbsolute treats SilenceConfig.ThresholdDB as a fixed dBFS
	// value: windows below it are silent.
	ThresholdAbsolute ThresholdMode = "absolute"

	// ThresholdRelative derives the threshold from the clip itself:
	// (mean window loudness − OffsetDB). The reference mean is computed
	// once per run over the full signal before classification begins;
	// it never adapts mid-stream.
	ThresholdRelative ThresholdMode = "relative"
)

// IsValid reports whether m is a recognised threshold mode.
func (m ThresholdMode) IsValid() bool {
	return m == ThresholdAbsolute || m == ThresholdRelative
}

// SilenceConfig holds the parameters for pause detection.
type SilenceConfig struct {
	// Mode selects absolute or relative thresholding.
	Mode ThresholdMode `yaml:"mode"`

	// ThresholdDB is the absolute silence threshold in dBFS, used when
	// Mode is ThresholdAbsolute. Typical: -40.
	ThresholdDB float64 `yaml:"threshold_db"`

	// OffsetDB is subtracted from the clip's mean loudness to form the
	// threshold when Mode is ThresholdRelative. Must be ≥ 0. Typical: 10.
	OffsetDB float64 `yaml:"offset_db"`

	// MinPauseMs is the minimum duration a silent run must reach to count
	// as a pause. Shorter runs are natural inter-word gaps, not pauses.
	MinPauseMs int `yaml:"min_pause_ms"`
}

// Pause is a maximal interval of below-threshold loudness that lasted at
// least the configured minimum duration.
type Pause struct {
	// StartSec and EndSec bound the pause in seconds from clip start.
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`

	// DurationSec = EndSec − StartSec, always > 0.
	DurationSec float64 `json:"duration_sec"`
}

// DetectPauses classifies each window as silent or voiced against the
// configured threshold, greedily merges maximal runs of consecutive silent
// windows, and keeps the runs whose total duration reaches cfg.MinPauseMs.
//
// A silent run that reaches the end of the signal is flushed and evaluated
// like any other candidate.
func DetectPauses(windows []Window, cfg SilenceConfig) []Pause {
	if len(windows) == 0 {
		return nil
	}

	threshold := cfg.ThresholdDB
	if cfg.Mode == ThresholdRelative {
		var sum float64
		for _, w := range windows {
			sum += w.DBFS
		}
		threshold = sum/float64(len(windows)) - cfg.OffsetDB
	}

	minPause := float64(cfg.MinPauseMs) / 1000.0

	var (
		pauses  []Pause
		inRun   bool
		runFrom float64
		runTo   float64
	)
	flush := func() {
		if !inRun {
			return
		}
		inRun = false
		if d := runTo - runFrom; d >= minPause && d > 0 {
			pauses = append(pauses, Pause{StartSec: runFrom, EndSec: runTo, DurationSec: d})
		}
	}

	for _, w := range windows {
		if w.DBFS < threshold {
			if !inRun {
				inRun = true
				runFrom = w.StartSec
			}
			runTo = w.EndSec
			continue
		}
		flush()
	}
	flush()

	return pauses
}
