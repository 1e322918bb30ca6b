package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-ingest/internal/broker"
	"stock-ingest/internal/config"
	"stock-ingest/internal/delivery"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "listener")
	logger.Info().
		Str("broker", cfg.Broker.URL()).
		Str("topic", cfg.Broker.Topic).
		Str("ingest_url", cfg.Delivery.IngestURL).
		Msg("starting QR scan listener")

	// The listener runs until the process is signalled.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deliverer := delivery.NewClient(cfg.Delivery, logger)
	client := broker.NewPahoClient(cfg.Broker, logger)
	subscriber := broker.NewSubscriber(client, deliverer, cfg.Broker.Topic, cfg.Broker.ReconnectDelay, logger)

	if err := subscriber.Run(ctx); err != nil {
		return fmt.Errorf("subscriber error: %w", err)
	}

	logger.Info().Msg("listener shutdown completed")
	return nil
}
