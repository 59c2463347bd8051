package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/octobees/engagesphere/api/internal/config"
	"github.com/octobees/engagesphere/api/internal/database"
	"github.com/octobees/engagesphere/api/internal/handler"
	"github.com/octobees/engagesphere/api/internal/logger"
	middlewarepkg "github.com/octobees/engagesphere/api/internal/middleware"
	"github.com/octobees/engagesphere/api/internal/repository"
	"github.com/octobees/engagesphere/api/internal/router"
	"github.com/octobees/engagesphere/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", logger.FormatJSON, os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customersRepo, closeRepo, err := openDirectory(log.WithContext(ctx), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open customer directory")
	}
	defer closeRepo()

	customersService := service.NewCustomersService(customersRepo, cfg.DefaultPageLimit)
	customersHandler := handler.NewCustomersHandler(customersService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	router.Register(e, cfg, router.Handlers{Customers: customersHandler})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("customers api listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openDirectory picks the customer source: Postgres (optionally behind Redis) when DATABASE_URL
// is set, the seed file otherwise.
func openDirectory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.CustomersRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		customers, err := service.NewCustomerLoader(nil).LoadFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("seed_file", cfg.SeedFile).Int("customers", len(customers)).Msg("serving customers from seed file")
		return repository.NewMemoryCustomersRepository(customers), func() {}, nil
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.DefaultPoolSettings())
	if err != nil {
		return nil, nil, err
	}
	var repo repository.CustomersRepository = repository.NewPGXCustomersRepository(pool)

	if cfg.RedisURL == "" {
		log.Info().Msg("serving customers from postgres")
		return repo, pool.Close, nil
	}

	cache, err := repository.NewRedisSnapshotCache(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Info().Dur("snapshot_ttl", cfg.SnapshotTTL).Msg("serving customers from postgres with redis snapshot cache")

	closeAll := func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
		pool.Close()
	}
	return repository.NewCachedCustomersRepository(repo, cache, cfg.SnapshotTTL), closeAll, nil
}
