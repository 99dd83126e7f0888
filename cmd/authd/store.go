package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/infrastructure/config"
	mongostore "github.com/99minutos/auth-service/internal/infrastructure/db/mongo"
	pgstore "github.com/99minutos/auth-service/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/auth-service/internal/infrastructure/db/redis"
)

// userStore is the repository selected by STORE_DRIVER together with the
// pinger used by the readiness probe and the function releasing its pool.
type userStore struct {
	repo  ports.UserRepository
	ready map[string]ports.Pinger
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, autoMigrate bool, log zerolog.Logger) (*userStore, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{
			URL:      cfg.Postgres.URL,
			MaxConns: cfg.Postgres.MaxConns,
			Timeout:  cfg.Postgres.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if autoMigrate {
			if err := pgstore.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("postgres migrations applied")
		}
		repo := pgstore.NewUserRepository(pool, cfg.Postgres.Timeout)
		return &userStore{
			repo:  repo,
			ready: map[string]ports.Pinger{config.DriverPostgres: repo},
			close: pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
			Timeout:     cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &userStore{
			repo:  repo,
			ready: map[string]ports.Pinger{config.DriverMongo: repo},
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, err
		}
		repo := redisstore.NewUserRepository(client)
		return &userStore{
			repo:  repo,
			ready: map[string]ports.Pinger{config.DriverRedis: repo},
			close: func() {
				if err := client.Close(); err != nil {
					log.Warn().Err(err).Msg("redis close")
				}
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
