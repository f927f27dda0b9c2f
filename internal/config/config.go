// Package config provides the configuration schema, loader, and provider
// registry for the speech metrics service.
package config

import (
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/analysis"
)

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for the service.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	STT      ProviderEntry   `yaml:"stt"`
	Analysis analysis.Config `yaml:"analysis"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// MaxUploadBytes caps the accepted audio upload size. 0 uses the
	// default of 64 MiB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// ProviderEntry configures the external transcription backend. The Name
// field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "openai").
	// Empty disables transcription; the server then only accepts requests
	// that carry their own transcript.
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider
	// (e.g., "gpt-4o-transcribe", "whisper-1").
	Model string `yaml:"model"`

	// Fallback optionally configures a second backend tried when this one
	// fails.
	Fallback *ProviderEntry `yaml:"fallback"`
}
