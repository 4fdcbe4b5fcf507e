// Package main is the entry point for the Gemini streaming relay server.
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

	"github.com/lmittmann/tint"

	"gemrelay/config"
	"gemrelay/internal/prompt"
	"gemrelay/internal/providers/gemini"
	"gemrelay/internal/server"
	"gemrelay/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	setupLogging()

	slog.Info("starting gemrelay",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Gemini.APIKey == "" {
		slog.Error("GEMINI_API_KEY must be configured")
		os.Exit(1)
	}
	if cfg.Server.SecretKey == "" {
		slog.Error("PROXY_SECRET_KEY must be configured; an empty secret rejects all requests")
		os.Exit(1)
	}

	upstream, err := gemini.New(context.Background(), cfg.Gemini.APIKey)
	if err != nil {
		slog.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}

	resolver := prompt.NewResolver(upstream, nil, cfg.Upload.PollInterval)
	builder := prompt.NewBuilder(resolver)

	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	}

	srv := server.New(upstream, builder, &server.Config{
		SecretKey:       cfg.Server.SecretKey,
		DefaultModel:    cfg.Gemini.DefaultModel,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
		BodySizeLimit:   cfg.Server.BodySizeLimit,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr, "default_model", cfg.Gemini.DefaultModel)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

// setupLogging installs the default slog handler: JSON for production,
// tint when LOG_FORMAT=pretty.
func setupLogging() {
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "pretty" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
