// Package httpapi serves the webhook callbacks that drive a call, the audio
// artifact downloads, and the outbound call trigger.
//
// Webhook handlers always answer 200 with a valid call-control document.
// Failures inside a call are spoken to the caller as localized apologies;
// an HTTP error status would only make the provider play its own generic
// failure message in the wrong language.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anand38913/voice-outbound/internal/answer"
	"github.com/Anand38913/voice-outbound/internal/artifact"
	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/health"
	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/observe"
	"github.com/Anand38913/voice-outbound/internal/session"
	"github.com/Anand38913/voice-outbound/pkg/provider/stt"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
)

// Telephony is the slice of the signaling provider the server needs.
type Telephony interface {
	// PlaceCall dials a number and points it at answerURL.
	PlaceCall(ctx context.Context, to, answerURL string) (sid, status string, err error)

	// FetchRecording downloads a caller recording.
	FetchRecording(ctx context.Context, recordingURL string) ([]byte, error)
}

// Server holds the handler dependencies.
type Server struct {
	cfg       *config.Config
	catalog   *locale.Catalog
	sessions  *session.Store
	artifacts *artifact.Store
	answerer  *answer.Engine
	stt       stt.Provider
	tts       tts.Provider
	telephony Telephony
	metrics   *observe.Metrics
	log       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithTelephony wires the outbound call trigger and recording downloads.
// Without it, POST /call answers 503 and recordings cannot be fetched.
func WithTelephony(t Telephony) Option {
	return func(s *Server) { s.telephony = t }
}

// WithMetrics sets the metrics instance. Defaults to the package-level one.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the server's logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New assembles a server over the given pipeline pieces.
func New(
	cfg *config.Config,
	catalog *locale.Catalog,
	sessions *session.Store,
	artifacts *artifact.Store,
	answerer *answer.Engine,
	sttProvider stt.Provider,
	ttsProvider tts.Provider,
	opts ...Option,
) *Server {
	s := &Server{
		cfg:       cfg,
		catalog:   catalog,
		sessions:  sessions,
		artifacts: artifacts,
		answerer:  answerer,
		stt:       sttProvider,
		tts:       ttsProvider,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Register adds all routes to mux, including the health probes and the
// Prometheus scrape endpoint.
func (s *Server) Register(mux *http.ServeMux, checks ...health.Checker) {
	mux.HandleFunc("POST /twilio/voice", s.handleVoice)
	mux.HandleFunc("POST /twilio/language", s.handleLanguage)
	mux.HandleFunc("POST /twilio/recording", s.handleRecording)
	mux.HandleFunc("POST /twilio/continue", s.handleContinue)
	mux.HandleFunc("GET /audio/{id}", s.handleAudio)
	mux.HandleFunc("POST /call", s.handleCall)
	mux.Handle("GET /metrics", promhttp.Handler())
	health.New(checks...).Register(mux)
}

// webhookURL joins the public base URL with a callback path.
func (s *Server) webhookURL(path string) string {
	return strings.TrimSuffix(s.cfg.Server.PublicURL, "/") + path
}
