package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsimpson73/test-med-app/internal/adapters/events"
	"github.com/jsimpson73/test-med-app/internal/adapters/registry"
	"github.com/jsimpson73/test-med-app/internal/adapters/search"
	"github.com/jsimpson73/test-med-app/internal/adapters/storage"
	"github.com/jsimpson73/test-med-app/internal/api/handlers"
	"github.com/jsimpson73/test-med-app/internal/api/middleware"
	"github.com/jsimpson73/test-med-app/internal/api/routes"
	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/clients/postgres"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/clients/redis"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/clients/typesense"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
	"github.com/jsimpson73/test-med-app/pkg/config"
	"github.com/jsimpson73/test-med-app/pkg/secrets"
	"github.com/rs/zerolog/log"
)

const sweepInterval = 10 * time.Minute

func main() {
	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("failed to load secrets from vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	var redisClient *redis.Client
	if cfg.Storage.Backend == config.StorageRedis || cfg.Redis.EventsEnabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client")
		}
		defer redisClient.Close()
	}

	backend, closeBackend, err := openStorage(ctx, cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage")
	}
	defer closeBackend()
	kv := storage.NewInstrumentedStore(backend, cfg.Storage.Backend, metrics)

	var eventBus providers.EventBus
	if cfg.Redis.EventsEnabled {
		eventBus = events.NewRedisEventBus(redisClient.Client())
		log.Info().Msg("notification events routed through Redis pub/sub")
	} else {
		eventBus = events.NewMemoryEventBus()
	}

	directory := services.NewDirectoryService(openSearch(ctx, cfg), metrics)
	accounts := services.NewAccountDirectory(catalog.SeedAccounts(), registry.NewKVUserRegistry(kv))

	manager := services.NewSessionManager(services.SessionManagerConfig{
		SessionKV: func(sessionID string) providers.KeyValueStore {
			return storage.NewNamespacedStore(kv, storage.SessionNamespace(sessionID))
		},
		Accounts: accounts,
		Doctors:  directory,
		Events:   eventBus,
		Metrics:  metrics,
		IdleTTL:  cfg.Auth.SessionIdleTTL,
	})
	go manager.Run(ctx, sweepInterval)

	sessions := handlers.NewSessions(manager, cfg.Auth.SessionCookie, cfg.Environment == "production")
	limiter := middleware.NewRateLimiter(cfg.Auth.RateLimitPerMin, cfg.Auth.RateLimitBurst, cfg.Server.TrustProxy)
	go limiter.Run(ctx, sweepInterval)
	router := routes.NewRouter(routes.Handlers{
		Auth:         handlers.NewAuthHandler(sessions, cfg.Auth.SimulatedDelay),
		Profile:      handlers.NewProfileHandler(sessions),
		Appointments: handlers.NewAppointmentHandler(sessions),
		Directory:    handlers.NewDirectoryHandler(directory, sessions),
		Reviews:      handlers.NewReviewHandler(sessions),
		Notification: handlers.NewNotificationHandler(sessions, eventBus),
		Reports:      handlers.NewReportHandler(services.NewReportService(), sessions),
	},
		limiter,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// no write timeout: notification streams stay open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("storage", cfg.Storage.Backend).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// close the bus first so open notification streams return
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStorage returns the durable backend selected by STORAGE_BACKEND.
func openStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (providers.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.StorageRedis:
		return storage.NewRedisStore(redisClient.Client()), noop, nil

	case config.StoragePostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		store := storage.NewPostgresStore(pgClient.DB())
		if err := store.EnsureSchema(ctx); err != nil {
			pgClient.Close()
			return nil, noop, err
		}
		return store, func() { pgClient.Close() }, nil

	case config.StorageBadger:
		store, err := storage.OpenBadgerStore(cfg.Badger.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("error closing badger store")
			}
		}, nil

	default:
		return storage.NewMemoryStore(), noop, nil
	}
}

// openSearch connects to Typesense when configured. Directory queries fall
// back to the in-memory filter when it is absent or unhealthy.
func openSearch(ctx context.Context, cfg *config.Config) providers.DoctorSearchProvider {
	if cfg.Typesense.URL == "" {
		return nil
	}

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, using in-memory doctor filter")
		return nil
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if err := adapter.Index(ctx, catalog.Doctors()); err != nil {
		log.Warn().Err(err).Msg("failed to index doctors, using in-memory doctor filter")
		return nil
	}
	return adapter
}
