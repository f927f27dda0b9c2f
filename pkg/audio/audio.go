// Package audio provides decoding of container audio formats into raw PCM
// sample data for analysis.
//
// The central type is [PCMAudio]: an immutable snapshot of a fully decoded
// clip — interleaved signed integer samples plus the format metadata needed
// to interpret them. Decoders produce a PCMAudio once and never mutate it;
// each analysis run owns its own copy, so no locking is required downstream.
//
// Only uncompressed RIFF/WAVE (PCM) containers are decoded natively via
// [DecodeWAV]. Compressed containers are rejected with [ErrUnsupportedFormat]
// rather than silently producing empty audio; transcoding to WAV is the
// caller's responsibility.
package audio

import "errors"

// ErrUnsupportedFormat is returned when the container signature or codec is
// not recognised. Retrying will not help — the bytes will not change.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// ErrCorruptAudio is returned when a container header cannot be parsed or the
// declared frame count does not match the available byte length.
var ErrCorruptAudio = errors.New("audio: corrupt audio data")

// PCMAudio holds a fully decoded audio clip as interleaved signed integer
// samples. For multi-channel audio the samples alternate per channel
// (L, R, L, R, … for stereo), so len(Samples) is always a multiple of
// Channels.
//
// PCMAudio is immutable once decoded: no method or function in this module
// modifies Samples after construction.
type PCMAudio struct {
	// Samples are the raw sample values at the source bit depth, sign-extended
	// into int32. An 8-bit source is converted from its unsigned on-disk
	// representation to signed centred on zero.
	Samples []int32

	// SampleRate in Hz as declared by the container header.
	SampleRate int

	// Channels is the interleaved channel count (1 = mono, 2 = stereo).
	Channels int

	// BitsPerSample is the source bit depth: 8, 16, 24, or 32.
	BitsPerSample int
}

// FrameCount returns the number of sample frames (one sample per channel).
func (p *PCMAudio) FrameCount() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Duration returns the clip length in seconds. A zero or negative sample
// rate yields 0 rather than a division fault, so degenerate headers stay
// representable without being an error at this layer.
func (p *PCMAudio) Duration() float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(p.FrameCount()) / float64(p.SampleRate)
}

// FullScale returns the maximum absolute sample value for the clip's bit
// depth, used to normalise amplitudes into [0, 1].
func (p *PCMAudio) FullScale() float64 {
	switch p.BitsPerSample {
	case 8:
		return 1 << 7
	case 16:
		return 1 << 15
	case 24:
		return 1 << 23
	case 32:
		return 1 << 31
	default:
		return 1 << 15
	}
}
