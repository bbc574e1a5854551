package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kettleworks/recipe-proxy/internal/api"
	"github.com/kettleworks/recipe-proxy/internal/config"
	"github.com/kettleworks/recipe-proxy/pkg/cache"
	"github.com/kettleworks/recipe-proxy/pkg/fetch"
	"github.com/kettleworks/recipe-proxy/pkg/logging"
	"github.com/kettleworks/recipe-proxy/pkg/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		fallbackLogger := logging.NewLogger("main")
		fallbackLogger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("main")

	// Cache store, owned here and passed down. The API key is
	// deliberately not checked: calls without it fail upstream.
	store, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache store")
	}
	defer closeStore()

	client, err := upstream.New(upstream.DefaultConfig(cfg.UpstreamBaseURL, cfg.APIKey))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create upstream client")
	}

	var fetchOpts []fetch.Option
	if cfg.SingleFlight {
		fetchOpts = append(fetchOpts, fetch.WithSingleFlight())
	}
	fetcher := fetch.New(store, client, fetchOpts...)

	router := api.NewRouter(api.NewHandlers(fetcher, store))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", cfg.UpstreamBaseURL).
			Str("cache_backend", cfg.CacheBackend).
			Bool("single_flight", cfg.SingleFlight).
			Msg("Starting recipe proxy")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-done
	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// buildStore creates the configured cache backend.
func buildStore(cfg config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		return cache.NewRedisStore(redisClient), func() { redisClient.Close() }, nil

	default:
		store := cache.NewMemoryStore(cfg.SweepInterval)
		return store, store.Close, nil
	}
}
