package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alinamichelle/utilify/internal/adapters/cache"
	"github.com/alinamichelle/utilify/internal/adapters/providers/geocoding"
	"github.com/alinamichelle/utilify/internal/adapters/providers/utility"
	"github.com/alinamichelle/utilify/internal/api/handlers"
	"github.com/alinamichelle/utilify/internal/api/routes"
	"github.com/alinamichelle/utilify/internal/application/services"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	redisclient "github.com/alinamichelle/utilify/internal/infrastructure/clients/redis"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/config"
	"github.com/alinamichelle/utilify/pkg/overrides"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs fine without an endpoint.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// The resolution cache prefers Redis and falls back to an in-process map.
	var cacheProvider providers.CacheProvider
	if redisCli, err := redisclient.NewClient(&cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-memory resolution cache")
		cacheProvider = cache.NewMemoryAdapter()
	} else {
		defer redisCli.Close()
		cacheProvider = cache.NewRedisAdapter(redisCli)
		logger.Info().Msg("Redis resolution cache initialized")
	}

	// Local overrides load once at startup and stay immutable.
	overrideTable, err := overrides.Load(cfg.Overrides.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Overrides.Path).Msg("failed to load local overrides")
	}

	geocoder := geocoding.NewNominatimProvider(cfg.Nominatim, metrics)
	resolution := services.NewResolutionService(
		geocoder,
		utility.NewElectricClient(metrics),
		utility.NewWaterClient(metrics),
		utility.NewGasClient(overrideTable.Gas, metrics),
		utility.NewTrashClient(),
		cacheProvider,
		cfg.Cache.TTL,
		metrics,
	)

	router := routes.NewRouter(handlers.NewProviderHandler(resolution), metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
