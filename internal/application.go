package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/config"
	"github.com/leonelranieri/tateti/internal/repository"
	"github.com/leonelranieri/tateti/internal/repository/storage"
	"github.com/leonelranieri/tateti/internal/service"
	"github.com/leonelranieri/tateti/transport/rest"
	"github.com/leonelranieri/tateti/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeStorage, err := NewSessionRepository(ctx, conf)
	if err != nil {
		return fmt.Errorf("could not create session repository: %w", err)
	}

	defer func() {
		if err := closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	log.Info("Session storage ready", "driver", conf.Storage.Driver)

	sessionService := service.NewSessionService(logger, sessionRepo)

	httpServer := rest.New(logger, sessionService)
	httpServer.Handle("/ws", websocket.New(logger, sessionService))

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = httpServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// NewSessionRepository - builds the repository of the configured driver and a function releasing its storage.
func NewSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory, "":
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil

	case config.StorageRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewSessionRepository(redisStorage.Connection, conf.Storage.SessionTTL), redisStorage.Close, nil

	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteSessionRepository(sqliteStorage.Connection), sqliteStorage.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrUnknownStorageDriver, conf.Storage.Driver)
	}
}
