// Package mock provides a test double for the stt.Transcriber interface.
//
// Use Transcriber in unit tests to feed controlled transcripts without a
// live STT backend and to verify what audio was submitted. All fields are
// safe to set before calling any method; mutating them during a concurrent
// call is the caller's responsibility.
//
// Example:
//
//	tr := &mock.Transcriber{
//	    Transcript: &stt.Transcript{Text: "um so basically"},
//	}
//	got, err := tr.Transcribe(ctx, bytes.NewReader(wav), "clip.wav")
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
)

// Call records a single invocation of Transcribe.
type Call struct {
	// Filename is the filename hint passed to Transcribe.
	Filename string

	// Audio is the full audio payload that was read from the reader.
	Audio []byte
}

// Transcriber is a mock implementation of stt.Transcriber.
// A zero value returns an empty transcript and nil error. Set Err to inject
// a failure.
type Transcriber struct {
	mu sync.Mutex

	// Transcript is returned by Transcribe. When nil, an empty (non-nil)
	// transcript is returned instead.
	Transcript *stt.Transcript

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every Transcribe invocation in order.
	Calls []Call
}

// Ensure Transcriber satisfies the interface at compile time.
var _ stt.Transcriber = (*Transcriber)(nil)

// Transcribe drains audio, records the call, and returns the configured
// transcript or error.
func (t *Transcriber) Transcribe(_ context.Context, audio io.Reader, filename string) (*stt.Transcript, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.Calls = append(t.Calls, Call{Filename: filename, Audio: data})
	t.mu.Unlock()

	if t.Err != nil {
		return nil, t.Err
	}
	if t.Transcript == nil {
		return &stt.Transcript{}, nil
	}
	out := *t.Transcript
	return &out, nil
}
