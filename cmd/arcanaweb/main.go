package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/arcana-web/internal/adapters/cards"
	httpadapter "github.com/randomtoy/arcana-web/internal/adapters/http"
	llmopenai "github.com/randomtoy/arcana-web/internal/adapters/llm/openai"
	"github.com/randomtoy/arcana-web/internal/adapters/llm/openrouter"
	"github.com/randomtoy/arcana-web/internal/app"
	"github.com/randomtoy/arcana-web/internal/config"
	"github.com/randomtoy/arcana-web/internal/ports"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if !cfg.HasCredential() {
		logger.Warn("no API key configured; readings will fail until one is set",
			"provider", cfg.LLMProvider)
	}

	httpClient := &http.Client{Timeout: cfg.LLMTimeout}
	var generator ports.Generator
	switch cfg.LLMProvider {
	case "openai":
		generator = llmopenai.NewClient(httpClient, cfg.LLMAPIKey, cfg.LLMBaseURL)
	default:
		generator = openrouter.NewClient(httpClient, cfg.LLMAPIKey, cfg.LLMBaseURL)
	}

	catalog := cards.NewEmbeddedCatalog()

	svc := app.NewReadingService(catalog, generator, stdRNG{}, app.Params{
		Model:         cfg.LLMModel,
		MaxTokens:     cfg.LLMMaxTokens,
		Temperature:   cfg.LLMTemperature,
		HasCredential: cfg.HasCredential(),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := httpadapter.NewRenderer()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	e.Renderer = renderer

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	limits := httpadapter.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst)
	handler, err := httpadapter.NewHandler(svc, catalog, limits)
	if err != nil {
		logger.Error("failed to build handler", "error", err)
		os.Exit(1)
	}
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
