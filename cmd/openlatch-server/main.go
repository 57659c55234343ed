// Package main is the entry point for the Openlatch server, the
// access-control backend for keypad/RFID entry points.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openlatch/openlatch/internal/blob"
	"github.com/openlatch/openlatch/internal/config"
	"github.com/openlatch/openlatch/internal/event"
	"github.com/openlatch/openlatch/internal/handler"
	"github.com/openlatch/openlatch/internal/pkg/crypto"
	"github.com/openlatch/openlatch/internal/repository"
	"github.com/openlatch/openlatch/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := buildLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("git_commit", GitCommit).
		Str("storage_backend", cfg.Storage.Backend).
		Msg("starting openlatch server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open blob store")
	}
	defer cleanup()

	hasher := crypto.NewHasher(cfg.Security.HashIterations)
	repo := repository.NewStore(store, logger)

	bus := event.NewBus()
	bus.Subscribe(func(e event.Event) {
		logger.Info().
			Str("type", e.Type).
			Str("user_id", e.UserID).
			Str("user_name", e.UserName).
			Str("source", e.Source).
			Str("reason", e.Reason).
			Time("timestamp", e.Timestamp).
			Msg("access event")
	})

	users := service.NewUserService(repo, hasher, logger)
	schedules := service.NewScheduleService(repo, logger)
	access := service.NewAccessService(users, schedules, bus, logger)

	h := handler.NewHandler(users, schedules, access, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildLogger configures the process logger from config.
func buildLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// openBlobStore builds the configured blob backend and a cleanup func.
func openBlobStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (blob.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "memory":
		return blob.NewMemoryStore(), noop, nil

	case "file":
		store, err := blob.NewFileStore(cfg.Storage.Path)
		return store, noop, err

	case "sqlite":
		store, err := blob.OpenSQLite(ctx, cfg.Storage.Path, cfg.Storage.Key)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error().Err(cerr).Msg("failed to close sqlite store")
			}
		}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, noop, err
		}
		return blob.NewRedisStore(client, cfg.Storage.Key), func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error().Err(cerr).Msg("failed to close redis client")
			}
		}, nil
	}

	// Unreachable: config.Load validates the backend name.
	return blob.NewMemoryStore(), noop, nil
}
