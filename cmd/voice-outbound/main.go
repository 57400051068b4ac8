// Command voice-outbound runs the multilingual telephone support line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/Anand38913/voice-outbound/internal/answer"
	"github.com/Anand38913/voice-outbound/internal/artifact"
	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/health"
	"github.com/Anand38913/voice-outbound/internal/httpapi"
	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/observe"
	"github.com/Anand38913/voice-outbound/internal/session"
	"github.com/Anand38913/voice-outbound/internal/telephony"
	"github.com/Anand38913/voice-outbound/pkg/provider/llm"
	"github.com/Anand38913/voice-outbound/pkg/provider/llm/anyllm"
	"github.com/Anand38913/voice-outbound/pkg/provider/stt"
	sttsarvam "github.com/Anand38913/voice-outbound/pkg/provider/stt/sarvam"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
	ttssarvam "github.com/Anand38913/voice-outbound/pkg/provider/tts/sarvam"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	envPath := flag.String("env", "", "optional .env file loaded before the config")
	flag.Parse()

	// ── Environment ───────────────────────────────────────────────────────────
	// The config file references secrets as ${VAR}; a .env file is a
	// convenient way to provide them during development.
	if *envPath != "" {
		if err := godotenv.Load(*envPath); err != nil {
			fmt.Fprintf(os.Stderr, "voice-outbound: load %s: %v\n", *envPath, err)
			return 1
		}
	} else {
		_ = godotenv.Load()
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voice-outbound: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voice-outbound: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("voice-outbound starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"public_url", cfg.Server.PublicURL,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "voice-outbound",
		ServiceVersion: version,
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
	metrics := observe.DefaultMetrics()

	// ── Localized texts ───────────────────────────────────────────────────────
	catalog, err := locale.New(cfg.Languages, cfg.Prompts)
	if err != nil {
		slog.Error("incomplete prompt catalog", "err", err)
		return 1
	}

	// ── Stores ────────────────────────────────────────────────────────────────
	sessions := session.NewStore(session.WithSweepHook(func(removed int) {
		metrics.ActiveSessions.Add(context.Background(), int64(-removed))
	}))
	artifacts, err := artifact.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		slog.Error("failed to open artifact store", "err", err)
		return 1
	}

	// ── Providers ─────────────────────────────────────────────────────────────
	sttProvider, err := buildSTT(cfg.Providers.STT)
	if err != nil {
		slog.Error("failed to build speech recognition provider", "err", err)
		return 1
	}
	ttsProvider, err := buildTTS(cfg.Providers.TTS)
	if err != nil {
		slog.Error("failed to build speech synthesis provider", "err", err)
		return 1
	}

	answerOpts := []answer.Option{answer.WithMetrics(metrics)}
	if cfg.Providers.LLM.Name != "" {
		model, err := buildLLM(cfg.Providers.LLM)
		if err != nil {
			slog.Error("failed to build language model provider", "err", err)
			return 1
		}
		answerOpts = append(answerOpts, answer.WithModel(model))
		slog.Info("language model enabled", "provider", cfg.Providers.LLM.Name, "model", cfg.Providers.LLM.Model)
	}
	answerer := answer.New(catalog, cfg.Support.CareContact, answerOpts...)

	// ── HTTP server ───────────────────────────────────────────────────────────
	serverOpts := []httpapi.Option{httpapi.WithMetrics(metrics)}
	if cfg.Telephony.Enabled() {
		serverOpts = append(serverOpts, httpapi.WithTelephony(telephony.New(cfg.Telephony)))
	} else {
		slog.Warn("telephony credentials not configured, outbound calls and recording downloads disabled")
	}
	api := httpapi.New(cfg, catalog, sessions, artifacts, answerer, sttProvider, ttsProvider, serverOpts...)

	mux := http.NewServeMux()
	api.Register(mux, health.Checker{
		Name: "artifacts",
		Check: func(context.Context) error {
			_, err := os.Stat(cfg.Artifacts.Dir)
			return err
		},
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           observe.Middleware(metrics)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── Run ───────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server ready — press Ctrl+C to shut down")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.Run(gctx, cfg.Session.SweepInterval.Std(), cfg.Session.InactivityTimeout.Std())
		return nil
	})
	g.Go(func() error {
		artifacts.Run(gctx, cfg.Artifacts.SweepInterval.Std(), cfg.Artifacts.MaxAge.Std(), cfg.Artifacts.MaxCount)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

func buildSTT(entry config.ProviderEntry) (stt.Provider, error) {
	switch entry.Name {
	case "sarvam":
		var opts []sttsarvam.Option
		if entry.BaseURL != "" {
			opts = append(opts, sttsarvam.WithBaseURL(entry.BaseURL))
		}
		if entry.Model != "" {
			opts = append(opts, sttsarvam.WithModel(entry.Model))
		}
		return sttsarvam.New(entry.APIKey, opts...)
	default:
		return nil, fmt.Errorf("unknown stt provider %q", entry.Name)
	}
}

func buildTTS(entry config.ProviderEntry) (tts.Provider, error) {
	switch entry.Name {
	case "sarvam":
		var opts []ttssarvam.Option
		if entry.BaseURL != "" {
			opts = append(opts, ttssarvam.WithBaseURL(entry.BaseURL))
		}
		if voice := optString(entry.Options, "voice"); voice != "" {
			opts = append(opts, ttssarvam.WithVoice(voice))
		}
		return ttssarvam.New(entry.APIKey, opts...)
	default:
		return nil, fmt.Errorf("unknown tts provider %q", entry.Name)
	}
}

func buildLLM(entry config.ProviderEntry) (llm.Provider, error) {
	var opts []anyllmlib.Option
	if entry.APIKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
	}
	if entry.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
	}
	return anyllm.New(entry.Name, entry.Model, opts...)
}

// optString reads a string value from a provider options map.
func optString(options map[string]any, key string) string {
	if v, ok := options[key].(string); ok {
		return v
	}
	return ""
}

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
