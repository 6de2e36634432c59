package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/config"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	redisclient "github.com/Zevankai/Equipment-Tool/internal/redis"
	characterrepo "github.com/Zevankai/Equipment-Tool/internal/repositories/character"
)

// openRepository builds the remote character store selected by cfg.Driver.
// The returned func releases its connections.
func openRepository(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *zap.Logger,
) (characterrepo.Repository, func() error, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{
			PoolSize:   cfg.RedisPoolSize,
			MaxRetries: cfg.RedisMaxRetries,
			UseTLS:     cfg.RedisTLS,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := redisclient.Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}

		repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
			Client: client,
			Logger: logger,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, client.Close, nil

	case config.DriverPostgres:
		db, err := characterrepo.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		repo, err := characterrepo.NewPostgres(&characterrepo.PostgresConfig{
			DB:     db,
			Logger: logger,
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage, records are lost on restart")
		return characterrepo.NewInMemory(nil), func() error { return nil }, nil

	default:
		return nil, nil, errors.InvalidArgumentf("unknown storage driver %q", cfg.Driver)
	}
}
