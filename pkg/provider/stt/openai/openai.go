// Package openai provides a batch STT Transcriber backed by the OpenAI
// audio transcriptions API.
package openai

import (
	"context"
	"fmt"
	"io"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = "gpt-4o-transcribe"

// Provider implements stt.Transcriber using the OpenAI API.
type Provider struct {
	client oai.Client
	model  string
}

// config holds optional configuration for the provider.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL. Useful for
// API-compatible local servers.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a new OpenAI STT Provider. model may be empty, in which
// case [DefaultModel] is used.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.timeout))
	}

	return &Provider{
		client: oai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Ensure Provider satisfies the Transcriber interface at compile time.
var _ stt.Transcriber = (*Provider)(nil)

// Transcribe submits the audio file to the transcriptions endpoint and
// returns the recognised text.
func (p *Provider) Transcribe(ctx context.Context, audio io.Reader, filename string) (*stt.Transcript, error) {
	resp, err := p.client.Audio.Transcriptions.New(ctx, oai.AudioTranscriptionNewParams{
		Model: oai.AudioModel(p.model),
		File:  oai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: transcribe: %w", err)
	}

	return &stt.Transcript{Text: resp.Text}, nil
}
