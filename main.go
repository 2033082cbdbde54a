package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemini_pipes/config"
	"gemini_pipes/logger"
	"gemini_pipes/pkg/gemini"
	"gemini_pipes/pkg/openaicompat"
	"gemini_pipes/pkg/pipe"
	"gemini_pipes/pkg/tools/shuttle"
	"gemini_pipes/pkg/tools/weather"
	"gemini_pipes/pkg/tools/youtube"
	"gemini_pipes/server"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		os.Stdout.WriteString(VersionInfo() + "\n")
		return
	}

	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "config_path", configPath)
		os.Exit(1)
	}

	if _, err := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		slog.Warn("file logging unavailable, continuing with stdout only", "error", err)
	}

	slog.Info("gemini pipes gateway starting", "version", Version(), "config_path", configPath)

	if err := cfg.Validate(); err != nil {
		// A missing key is not fatal: pipes answer with a configuration
		// error message, which is the contract the host expects.
		slog.Warn("configuration incomplete", "error", err)
	}

	timeout := time.Duration(cfg.Gemini.APITimeoutSeconds) * time.Second

	nativePipe := gemini.New(gemini.Options{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.APIURL,
		DefaultModel:      cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		MaxTokens:         cfg.Gemini.MaxTokens,
		Timeout:           timeout,
		EnableVision:      cfg.Gemini.EnableVision,
		AutoDetectYouTube: cfg.Gemini.AutoDetectYouTube,
		VideoFPS:          cfg.Gemini.VideoFPS,
	})
	compatPipe := openaicompat.New(openaicompat.Options{
		APIKey:      cfg.Gemini.APIKey,
		Temperature: cfg.Gemini.Temperature,
		MaxTokens:   cfg.Gemini.MaxTokens,
		Timeout:     timeout,
	})

	registry := pipe.NewRegistry()
	registry.Register(nativePipe)
	registry.Register(compatPipe)

	ytClient := youtube.NewClient("", nil)
	srv := server.New(
		registry,
		weather.NewClient(cfg.Tools.WeatherURL, nil),
		shuttle.NewClient(cfg.Tools.ShuttleURL, nil),
		youtube.NewSummarizer(nativePipe, compatPipe, ytClient),
	)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", cfg.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
