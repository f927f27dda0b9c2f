package openai

import (
	"testing"
	"time"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := New("", "gpt-4o-transcribe"); err == nil {
		t.Error("expected an error for an empty API key")
	}
}

func TestNew_DefaultModel(t *testing.T) {
	t.Parallel()

	p, err := New("sk-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.model != DefaultModel {
		t.Errorf("model = %q, want %q", p.model, DefaultModel)
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	p, err := New("sk-test", "whisper-1",
		WithBaseURL("http://localhost:8000/v1"),
		WithTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.model != "whisper-1" {
		t.Errorf("model = %q, want whisper-1", p.model)
	}
}
