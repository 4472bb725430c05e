package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"email-advisor/internal/app"
	"email-advisor/internal/config"
	"email-advisor/internal/http"
)

//go:embed index.html
var indexHTML string

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		slog.Error("API server exited with error", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is done. The catalog is closed before it returns.
func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The web app keeps serving drafts when the reference corpus is missing
	advisorApp, err := app.Build(ctx, cfg, app.Options{AllowMissingCorpus: true})
	if err != nil {
		return fmt.Errorf("failed to build advisor: %w", err)
	}
	defer advisorApp.Close()

	router := http.NewRouter(&http.Deps{
		Service:        advisorApp.Service(),
		Observer:       advisorApp.Metrics,
		MetricsHandler: advisorApp.Metrics.Handler(),
		IndexHTML:      indexHTML,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr, "composer", cfg.Composer)
	if cfg.Composer == config.ComposerLLM {
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return fmt.Errorf("API server failed: %w", err)
	}
	slog.Info("API server stopped")
	return nil
}
