package analysis

import (
	"math"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/audio"
)

// dbfsFloor is the loudness assigned to a window whose RMS is exactly zero,
// standing in for -infinity so comparisons stay finite.
const dbfsFloor = -120.0

// Window is one fixed-duration slice of the input signal with its loudness.
// Windows are non-overlapping, time-ordered, and cover the whole clip; the
// final window may be shorter than the configured duration but is never
// dropped.
type Window struct {
	// StartSec and EndSec bound the window in seconds from clip start.
	StartSec float64
	EndSec   float64

	// RMS is the root-mean-square amplitude normalised to [0, 1] by the
	// clip's full-scale value. Multi-channel audio is treated as a flat
	// interleaved stream — no per-channel separation — so stereo windows
	// read louder on average than mono at the same perceptual level.
	RMS float64

	// DBFS is the same loudness expressed in decibels relative to full
	// scale: 20·log10(RMS), floored at -120 dB for digital silence.
	DBFS float64
}

// DurationSec returns the window length in seconds.
func (w Window) DurationSec() float64 {
	return w.EndSec - w.StartSec
}

// ComputeWindows slices pcm into windows of windowMs milliseconds and
// computes the loudness of each. Zero-length audio (or a degenerate header
// with a non-positive sample rate) yields an empty sequence, not an error.
func ComputeWindows(pcm *audio.PCMAudio, windowMs int) []Window {
	if pcm == nil || len(pcm.Samples) == 0 || pcm.SampleRate <= 0 || windowMs <= 0 {
		return nil
	}

	framesPerWindow := pcm.SampleRate * windowMs / 1000
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}
	samplesPerWindow := framesPerWindow * pcm.Channels
	fullScale := pcm.FullScale()
	rate := float64(pcm.SampleRate)

	windows := make([]Window, 0, len(pcm.Samples)/samplesPerWindow+1)
	for start := 0; start < len(pcm.Samples); start += samplesPerWindow {
		end := min(start+samplesPerWindow, len(pcm.Samples))

		var sumSquares float64
		for _, s := range pcm.Samples[start:end] {
			v := float64(s) / fullScale
			sumSquares += v * v
		}
		rms := math.Sqrt(sumSquares / float64(end-start))

		dbfs := dbfsFloor
		if rms > 0 {
			dbfs = 20 * math.Log10(rms)
			if dbfs < dbfsFloor {
				dbfs = dbfsFloor
			}
		}

		windows = append(windows, Window{
			StartSec: float64(start/pcm.Channels) / rate,
			EndSec:   float64((end+pcm.Channels-1)/pcm.Channels) / rate,
			RMS:      rms,
			DBFS:     dbfs,
		})
	}
	return windows
}
