package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-interview-service/internal/app"
	"ai-interview-service/internal/catalog"
	"ai-interview-service/internal/config"
	"ai-interview-service/internal/events"
	internalhttp "ai-interview-service/internal/http"
	"ai-interview-service/internal/observability"
	"ai-interview-service/internal/observability/metrics"
	"ai-interview-service/internal/schema"
	"ai-interview-service/internal/scoring"
	"ai-interview-service/internal/session"
)

func main() {
	// Local development convenience; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	logger := application.Logger

	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load prompt catalogue")
	}
	metrics.DefaultMetrics.SetCatalogueSize(store.Len())
	logger.Info().Int("prompts", store.Len()).Msg("Prompt catalogue loaded")

	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicSession: cfg.Kafka.TopicSession,
		TopicScore:   cfg.Kafka.TopicScore,
		Principal:    cfg.Kafka.Principal,
	})
	defer publisher.Close()

	handlers := &internalhttp.Handlers{
		Catalog: store,
		Provisioner: session.New(session.Config{
			URL:          cfg.LiveKit.URL,
			APIKey:       cfg.LiveKit.APIKey,
			APISecret:    cfg.LiveKit.APISecret,
			EmptyTimeout: cfg.LiveKit.EmptyTimeout,
		}),
		Scorer: scoring.New(cfg.OpenAI.APIKey, scoring.Config{
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
		}),
		Publisher: publisher,
		Validator: schema.New(),
	}

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Application startup failed")
	}

	obsServer := observability.NewServer(":" + cfg.Service.MetricsPort)
	obsServer.Start()

	apiServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      internalhttp.NewRouter(application, handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", apiServer.Addr).Msg("AI Interview API listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("API server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Observability server shutdown failed")
	}
	application.Shutdown()
}
