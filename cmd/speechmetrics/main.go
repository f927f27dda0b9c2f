// Command speechmetrics runs the speech delivery metrics service.
//
// In server mode (the default) it serves POST /v1/analyze plus /metrics,
// /healthz, and /readyz on the configured address. With -file it instead
// analyses a single recording and prints the metrics record as JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/freddie-garnett-dix/speech-metrics-app/internal/config"
	"github.com/freddie-garnett-dix/speech-metrics-app/internal/observe"
	"github.com/freddie-garnett-dix/speech-metrics-app/internal/server"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/analysis"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/audio"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
	oaistt "github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt/openai"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	audioPath := flag.String("file", "", "analyse this WAV file and print the metrics record instead of serving")
	transcriptPath := flag.String("transcript", "", "with -file: read the transcript from this text file instead of transcribing")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if *audioPath != "" {
				// One-shot mode works fine without a config file.
				cfg = defaultConfig()
			} else {
				fmt.Fprintf(os.Stderr, "speechmetrics: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
				return 1
			}
		} else {
			fmt.Fprintf(os.Stderr, "speechmetrics: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	// ── Analysis engine ───────────────────────────────────────────────────────
	analyzer, err := analysis.New(cfg.Analysis)
	if err != nil {
		slog.Error("invalid analysis configuration", "err", err)
		return 1
	}

	// ── STT backend ───────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	var transcriber stt.Transcriber
	if cfg.STT.Name != "" {
		transcriber, err = reg.CreateSTT(cfg.STT)
		if err != nil {
			slog.Error("failed to create stt provider", "name", cfg.STT.Name, "err", err)
			return 1
		}
		slog.Info("stt provider created", "name", cfg.STT.Name, "model", cfg.STT.Model)
	}

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *audioPath != "" {
		return runOnce(ctx, analyzer, transcriber, *audioPath, *transcriptPath)
	}

	return runServer(ctx, cfg, analyzer, transcriber)
}

// runOnce analyses a single recording and prints the flattened metrics
// record as indented JSON on stdout.
func runOnce(ctx context.Context, analyzer *analysis.Analyzer, transcriber stt.Transcriber, audioPath, transcriptPath string) int {
	raw, err := os.ReadFile(audioPath)
	if err != nil {
		slog.Error("failed to read audio file", "path", audioPath, "err", err)
		return 1
	}

	pcm, err := audio.DecodeWAV(raw)
	if err != nil {
		slog.Error("failed to decode audio", "path", audioPath, "err", err)
		return 1
	}

	var transcript string
	switch {
	case transcriptPath != "":
		text, err := os.ReadFile(transcriptPath)
		if err != nil {
			slog.Error("failed to read transcript file", "path", transcriptPath, "err", err)
			return 1
		}
		transcript = string(text)
	case transcriber != nil:
		tr, err := transcriber.Transcribe(ctx, bytes.NewReader(raw), filepath.Base(audioPath))
		if err != nil {
			slog.Error("transcription failed", "err", err)
			return 1
		}
		transcript = tr.Text
	default:
		slog.Error("no transcript source: configure an stt provider or pass -transcript")
		return 1
	}

	res, err := analyzer.Analyze(ctx, pcm, transcript)
	if err != nil {
		slog.Error("analysis failed", "err", err)
		return 1
	}

	out, err := json.MarshalIndent(res.Record(), "", "  ")
	if err != nil {
		slog.Error("failed to encode record", "err", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// runServer starts the HTTP service and blocks until the signal context is
// cancelled, then shuts down gracefully.
func runServer(ctx context.Context, cfg *config.Config, analyzer *analysis.Analyzer, transcriber stt.Transcriber) int {
	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "speechmetrics",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	opts := []server.Option{
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
	}
	if transcriber != nil {
		opts = append(opts, server.WithTranscriber(transcriber))
	}
	srv := server.New(analyzer, opts...)

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			return 1
		}
	case <-ctx.Done():
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutdown signal received, stopping…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires the STT provider factories that ship with
// the service into reg.
func registerBuiltinProviders(reg *config.Registry) {
	reg.RegisterSTT("openai", func(entry config.ProviderEntry) (stt.Transcriber, error) {
		var opts []oaistt.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaistt.WithBaseURL(entry.BaseURL))
		}
		return oaistt.New(entry.APIKey, entry.Model, opts...)
	})
}

// defaultConfig returns a config with all defaults applied, used by one-shot
// mode when no config file exists.
func defaultConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   config.LogInfo,
		},
		Analysis: analysis.DefaultConfig(),
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
