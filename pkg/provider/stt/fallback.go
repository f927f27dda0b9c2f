package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Failover tuning for [Fallback]. After breakerThreshold consecutive primary
// failures the primary is skipped entirely for breakerCooldown, letting a
// struggling backend recover instead of paying its timeout on every request.
const (
	breakerThreshold = 3
	breakerCooldown  = 30 * time.Second
)

// Fallback implements [Transcriber] with automatic failover from a primary
// to a secondary backend. The primary gets a simple consecutive-failure
// circuit breaker; the secondary is always tried when the primary is skipped
// or fails.
//
// Fallback is safe for concurrent use.
type Fallback struct {
	primary       Transcriber
	secondary     Transcriber
	primaryName   string
	secondaryName string

	mu        sync.Mutex
	failures  int
	openUntil time.Time
}

// Compile-time interface assertion.
var _ Transcriber = (*Fallback)(nil)

// NewFallback wraps primary with secondary as its failover backend. The
// names are used for logging only.
func NewFallback(primary Transcriber, primaryName string, secondary Transcriber, secondaryName string) *Fallback {
	return &Fallback{
		primary:       primary,
		secondary:     secondary,
		primaryName:   primaryName,
		secondaryName: secondaryName,
	}
}

// Transcribe tries the primary backend first, then the secondary. The audio
// is buffered once so both backends can read it from the start. Both
// failing returns both errors joined.
func (f *Fallback) Transcribe(ctx context.Context, audio io.Reader, filename string) (*Transcript, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("stt: read audio: %w", err)
	}

	var primaryErr error
	if f.primaryHealthy() {
		t, err := f.primary.Transcribe(ctx, bytes.NewReader(data), filename)
		if err == nil {
			f.recordSuccess()
			return t, nil
		}
		primaryErr = err
		// A cancelled or timed-out request says nothing about the backend's
		// health; only genuine failures count toward opening the circuit.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			f.recordFailure()
		}
		slog.Warn("stt: primary transcriber failed, trying fallback",
			"primary", f.primaryName,
			"fallback", f.secondaryName,
			"err", err,
		)
	} else {
		primaryErr = fmt.Errorf("stt: primary %q circuit open", f.primaryName)
	}

	t, err := f.secondary.Transcribe(ctx, bytes.NewReader(data), filename)
	if err != nil {
		return nil, errors.Join(primaryErr, err)
	}
	return t, nil
}

// primaryHealthy reports whether the primary should be tried.
func (f *Fallback) primaryHealthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return time.Now().After(f.openUntil)
}

func (f *Fallback) recordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = 0
}

func (f *Fallback) recordFailure() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
	if f.failures >= breakerThreshold {
		f.openUntil = time.Now().Add(breakerCooldown)
		f.failures = 0
		slog.Warn("stt: primary circuit opened",
			"primary", f.primaryName,
			"cooldown", breakerCooldown,
		)
	}
}
