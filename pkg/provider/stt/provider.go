// Package stt defines the Transcriber interface for speech-to-text backends.
//
// Transcription is an external capability: the metrics engine treats the
// transcript purely as text and is agnostic to how it was produced. A
// Transcriber wraps a batch transcription service (e.g. the OpenAI audio
// API) behind a single whole-file call — the recording is complete and
// finite at analysis time, so no streaming session management is needed.
//
// Implementations must be safe for concurrent use: independent recordings
// may be transcribed simultaneously.
package stt

import (
	"context"
	"io"
)

// Transcript is the result of transcribing one complete recording.
type Transcript struct {
	// Text is the transcribed speech content. May be empty when the
	// recording contains no recognisable speech — that is a valid result,
	// not an error.
	Text string

	// Language is the detected or requested BCP-47 language tag, when the
	// provider reports one.
	Language string

	// DurationSeconds is the audio duration as measured by the provider,
	// 0 when not reported.
	DurationSeconds float64
}

// Transcriber is the abstraction over any batch STT backend.
type Transcriber interface {
	// Transcribe submits one complete audio file and returns its transcript.
	// audio supplies the raw container bytes; filename hints the container
	// format to providers that sniff by extension (e.g. "recording.wav").
	//
	// Returns a non-nil *Transcript on success. Failures (authentication,
	// network, rejected audio) are returned as errors and abort the
	// analysis run — there is no partial result.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (*Transcript, error)
}
