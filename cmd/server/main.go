package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pantryport/backend/config"
	httpDelivery "github.com/pantryport/backend/internal/delivery/http"
	"github.com/pantryport/backend/internal/infrastructure/badgerstore"
	"github.com/pantryport/backend/internal/infrastructure/cache"
	"github.com/pantryport/backend/internal/infrastructure/catalog"
	"github.com/pantryport/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := setupLogger(cfg)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting pantryport backend")

	// Durable cache tier
	store, err := badgerstore.Open(cfg.Cache.Path, cfg.Cache.InMemory, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Cache.Path).Msg("failed to open cache store")
	}
	defer store.Close()

	tiered := cache.New(store,
		cache.WithCapacity(cfg.Cache.Capacity),
		cache.WithLogger(logger),
	)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.Catalog.Timeout,
		MaxRetries:    cfg.Catalog.MaxRetries,
		RatePerSecond: cfg.Catalog.RatePerSecond,
	}, logger)

	matcher := usecase.NewMatcherService(tiered, catalogClient, usecase.MatcherConfig{
		MinScore:           cfg.Matching.MinScore,
		SubstituteMinScore: cfg.Matching.SubstituteMinScore,
		MaxResults:         cfg.Matching.MaxResults,
		BatchGroupSize:     cfg.Matching.BatchGroupSize,
		Scorer: usecase.ScorerConfig{
			EnableFuzzyMatching: cfg.Matching.EnableFuzzyMatching,
			FuzzyEditDistance:   cfg.Matching.FuzzyEditDistance,
		},
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startSweeper(ctx, matcher, cfg.Cache.SweepInterval, logger)

	handler := httpDelivery.NewHandler(matcher)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// startSweeper periodically removes expired durable cache entries.
func startSweeper(ctx context.Context, matcher *usecase.MatcherService, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := matcher.SweepCache(ctx)
				if err != nil {
					logger.Warn().Err(err).Msg("cache sweep failed")
					continue
				}
				if removed > 0 {
					logger.Info().Int("removed", removed).Msg("cache sweep completed")
				}
			}
		}
	}()
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}

	log.Logger = logger
	return logger
}
