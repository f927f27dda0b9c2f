package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/analysis"
)

// ValidSTTProviders lists known STT provider names. Used by [Validate] to
// warn about unrecognised names.
var ValidSTTProviders = []string{"openai"}

// defaultMaxUploadBytes caps uploads when the config does not set a limit.
const defaultMaxUploadBytes = 64 << 20

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{
		Analysis: analysis.DefaultConfig(),
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty file means "all defaults".
			applyDefaults(cfg)
			return cfg, Validate(cfg)
		}
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields that have non-zero defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = defaultMaxUploadBytes
	}

	def := analysis.DefaultConfig()
	if cfg.Analysis.WindowMs == 0 {
		cfg.Analysis.WindowMs = def.WindowMs
	}
	if cfg.Analysis.Silence.Mode == "" {
		cfg.Analysis.Silence = def.Silence
	}
	if cfg.Analysis.LongPauseThresholds == nil {
		cfg.Analysis.LongPauseThresholds = def.LongPauseThresholds
	}
	if cfg.Analysis.FillerWords == nil {
		cfg.Analysis.FillerWords = def.FillerWords
	}
	if cfg.Analysis.FillerPhrases == nil {
		cfg.Analysis.FillerPhrases = def.FillerPhrases
	}
	if cfg.Analysis.Stopwords == nil {
		cfg.Analysis.Stopwords = def.Stopwords
	}
	// 0 (or absent) means the default length; a negative value is the
	// explicit "no ranked list" state and passes through untouched.
	if cfg.Analysis.TopWords == 0 {
		cfg.Analysis.TopWords = def.TopWords
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes %d must not be negative", cfg.Server.MaxUploadBytes))
	}

	validateProviderEntry(&cfg.STT, &errs)

	if err := cfg.Analysis.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateProviderEntry checks one provider entry and its fallback chain.
func validateProviderEntry(entry *ProviderEntry, errs *[]error) {
	if entry.Name == "" {
		if entry.Fallback != nil {
			*errs = append(*errs, errors.New("stt.fallback configured without a primary provider"))
		}
		slog.Warn("no STT provider configured; requests must supply their own transcript")
		return
	}
	if !slices.Contains(ValidSTTProviders, entry.Name) {
		slog.Warn("unknown STT provider name", "name", entry.Name, "known", ValidSTTProviders)
	}
	if entry.Fallback != nil {
		validateProviderEntry(entry.Fallback, errs)
	}
}
