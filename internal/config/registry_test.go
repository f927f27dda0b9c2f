package config

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt/mock"
)

func TestRegistry_CreateSTT(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterSTT("mock", func(entry ProviderEntry) (stt.Transcriber, error) {
		return &mock.Transcriber{Transcript: &stt.Transcript{Text: entry.Model}}, nil
	})

	tr, err := reg.CreateSTT(ProviderEntry{Name: "mock", Model: "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := tr.Transcribe(context.Background(), bytes.NewReader(nil), "clip.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "m1" {
		t.Errorf("Text = %q, want m1", got.Text)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().CreateSTT(ProviderEntry{Name: "nope"})
	if !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("got %v, want ErrProviderNotRegistered", err)
	}
}

func TestRegistry_FallbackChain(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterSTT("failing", func(ProviderEntry) (stt.Transcriber, error) {
		return &mock.Transcriber{Err: errors.New("down")}, nil
	})
	reg.RegisterSTT("working", func(ProviderEntry) (stt.Transcriber, error) {
		return &mock.Transcriber{Transcript: &stt.Transcript{Text: "backup"}}, nil
	})

	tr, err := reg.CreateSTT(ProviderEntry{
		Name:     "failing",
		Fallback: &ProviderEntry{Name: "working"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := tr.Transcribe(context.Background(), bytes.NewReader(nil), "clip.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "backup" {
		t.Errorf("Text = %q, want backup", got.Text)
	}
}
