// Package server exposes the speech metrics engine over HTTP.
//
// The main endpoint is POST /v1/analyze: a multipart upload carrying a WAV
// recording in the "audio" part and, optionally, a pre-existing transcript
// in the "transcript" part. When no transcript part is present the server
// transcribes the recording through the configured [stt.Transcriber] before
// running the analysis. The response is the full metrics record as JSON.
//
// The handler also serves /metrics (Prometheus scrape endpoint), /healthz,
// and /readyz. All routes run behind [observe.Middleware].
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/freddie-garnett-dix/speech-metrics-app/internal/health"
	"github.com/freddie-garnett-dix/speech-metrics-app/internal/observe"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/analysis"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/audio"
	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/provider/stt"
)

// defaultMaxUploadBytes caps uploads at 64 MiB when no limit is configured.
const defaultMaxUploadBytes = 64 << 20

// multipartMemoryLimit is how much of a parsed multipart form is held in
// memory before spilling to disk.
const multipartMemoryLimit = 10 << 20

// Server handles analysis requests. Construct with [New]; the zero value is
// not usable.
type Server struct {
	analyzer    *analysis.Analyzer
	transcriber stt.Transcriber
	metrics     *observe.Metrics
	health      *health.Handler
	maxUpload   int64
}

// Option is a functional option for [New].
type Option func(*Server)

// WithTranscriber sets the speech-to-text backend used when a request does
// not supply its own transcript. Without one, such requests are rejected.
func WithTranscriber(t stt.Transcriber) Option {
	return func(s *Server) { s.transcriber = t }
}

// WithMetrics overrides the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMaxUploadBytes caps the accepted request body size. Non-positive
// values keep the 64 MiB default.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithHealth overrides the health handler registered on the mux.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.health = h
		}
	}
}

// New creates a Server around the given analyzer.
func New(analyzer *analysis.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  analyzer,
		metrics:   observe.DefaultMetrics(),
		maxUpload: defaultMaxUploadBytes,
	}
	for _, o := range opts {
		o(s)
	}
	if s.health == nil {
		s.health = health.New(s.defaultCheckers())
	}
	return s
}

// defaultCheckers reports the analyzer as ready and the STT backend as
// configured or not. A missing backend is not a failure — transcript-carrying
// requests still work without one.
func (s *Server) defaultCheckers() []health.Checker {
	return []health.Checker{
		{Name: "analyzer", Check: func(context.Context) error {
			if s.analyzer == nil {
				return errors.New("analyzer not configured")
			}
			return nil
		}},
	}
}

// Handler returns the full HTTP handler: analysis route, Prometheus metrics,
// and health endpoints, wrapped in the observability middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.Handle("GET /metrics", promhttp.Handler())
	s.health.Register(mux)
	return observe.Middleware(s.metrics)(mux)
}

// errorBody is the JSON shape of all error responses.
type errorBody struct {
	Error string `json:"error"`
}

// handleAnalyze runs the full pipeline for one uploaded recording:
// decode, transcribe (unless a transcript part is supplied), analyze.
//
// Status mapping:
//
//	415 — unrecognised container or codec
//	400 — corrupt audio, malformed multipart body, or missing audio part
//	413 — upload exceeds the configured size limit
//	502 — the transcription backend failed
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := observe.Logger(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.countRequest(r, "too_large")
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "upload too large"})
			return
		}
		s.countRequest(r, "bad_request")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed multipart request"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.countRequest(r, "bad_request")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing audio part"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		s.countRequest(r, "bad_request")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "could not read audio part"})
		return
	}

	decodeStart := time.Now()
	pcm, err := audio.DecodeWAV(raw)
	s.metrics.DecodeDuration.Record(ctx, time.Since(decodeStart).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			s.countRequest(r, "unsupported_format")
			writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: err.Error()})
		case errors.Is(err, audio.ErrCorruptAudio):
			s.countRequest(r, "corrupt_audio")
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		default:
			s.countRequest(r, "error")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "decode failed"})
		}
		return
	}

	transcript, ok := suppliedTranscript(r)
	if !ok {
		if s.transcriber == nil {
			s.countRequest(r, "bad_request")
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error: "no transcript part and no transcription backend configured",
			})
			return
		}

		filename := header.Filename
		if filename == "" {
			filename = "recording.wav"
		}

		sttStart := time.Now()
		tr, err := s.transcriber.Transcribe(ctx, bytes.NewReader(raw), filename)
		s.metrics.TranscriptionDuration.Record(ctx, time.Since(sttStart).Seconds())
		if err != nil {
			s.metrics.TranscriptionRequests.Add(ctx, 1,
				metric.WithAttributes(attribute.String("status", "error")))
			s.countRequest(r, "stt_error")
			log.Error("transcription failed", "error", err)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "transcription failed"})
			return
		}
		s.metrics.TranscriptionRequests.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", "ok")))
		transcript = tr.Text
	}

	s.metrics.ActiveAnalyses.Add(ctx, 1)
	analysisStart := time.Now()
	res, err := s.analyzer.Analyze(ctx, pcm, transcript)
	s.metrics.AnalysisDuration.Record(ctx, time.Since(analysisStart).Seconds())
	s.metrics.ActiveAnalyses.Add(ctx, -1)
	if err != nil {
		s.countRequest(r, "error")
		log.Error("analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "analysis failed"})
		return
	}

	s.countRequest(r, "ok")
	log.Info("analysis complete",
		"duration_seconds", res.DurationSeconds,
		"word_count", res.WordCount,
	)
	writeJSON(w, http.StatusOK, res)
}

// suppliedTranscript returns the transcript form value and whether the part
// was present at all. An empty transcript part is a deliberate "analyse
// silence" request and suppresses transcription.
func suppliedTranscript(r *http.Request) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value["transcript"]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// countRequest increments the analysis request counter with a status label.
func (s *Server) countRequest(r *http.Request, status string) {
	s.metrics.AnalysisRequests.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("status", status)))
}

// writeJSON encodes v with the given status. Encoding failures are logged
// but cannot be reported to the client once the header is written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("response encoding failed", "error", err)
	}
}
