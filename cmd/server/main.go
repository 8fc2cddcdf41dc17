// Dictation platform server - serves the prefetch-and-display suggestion
// engine over WebSocket connections.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/dictaflow/platform/internal/config"
	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/generate/anyllm"
	"github.com/dictaflow/platform/internal/generate/openai"
	"github.com/dictaflow/platform/internal/server"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := config.Load()

	gen, err := buildGenerator(cfg)
	if err != nil {
		slog.Error("failed to build suggestion generator", "provider", cfg.GeneratorProvider, "error", err)
		os.Exit(1)
	}

	srv := server.New(gen, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("dictation server starting", "http", cfg.HTTPAddr, "provider", cfg.GeneratorProvider, "model", cfg.GeneratorModel)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// buildGenerator selects the suggestion backend from configuration.
func buildGenerator(cfg *config.Config) (generate.Generator, error) {
	switch cfg.GeneratorProvider {
	case "openai":
		opts := []openai.Option{openai.WithTimeout(cfg.GenerateTimeout)}
		if cfg.GeneratorBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.GeneratorBaseURL))
		}
		return openai.New(cfg.GeneratorAPIKey, cfg.GeneratorModel, opts...)

	case "anyllm":
		var opts []anyllmlib.Option
		if cfg.GeneratorAPIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.GeneratorAPIKey))
		}
		if cfg.GeneratorBaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.GeneratorBaseURL))
		}
		return anyllm.New(cfg.AnyLLMBackend, cfg.GeneratorModel, opts...)

	default:
		slog.Info("no generator provider configured, using static suggestions")
		return generate.NewStatic(), nil
	}
}
