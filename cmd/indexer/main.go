package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jsimpson73/test-med-app/internal/adapters/search"
	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/clients/typesense"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
	"github.com/jsimpson73/test-med-app/pkg/config"
	"github.com/jsimpson73/test-med-app/pkg/secrets"
	"github.com/rs/zerolog/log"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("failed to load secrets from vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Environment, cfg.LogLevel)

	if cfg.Typesense.URL == "" {
		log.Fatal().Msg("TYPESENSE_URL is required")
	}

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", typesense.DoctorsCollection).Msg("deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.DoctorsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	directory := services.NewDirectoryService(search.NewTypesenseAdapter(tsClient), nil)
	if err := directory.IndexCatalog(ctx); err != nil {
		return err
	}

	log.Info().Int("doctors", len(catalog.Doctors())).Msg("indexed doctor directory")
	return nil
}
