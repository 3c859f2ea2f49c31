package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alebarre/italicita/internal/catalog"
	"github.com/alebarre/italicita/internal/config"
	"github.com/alebarre/italicita/internal/orders"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openCatalog opens the SQLite catalog, migrates it and loads the seed menu.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.SQLiteRepository, error) {
	repo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := repo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}

	items, err := catalog.LoadSeed()
	if err != nil {
		repo.Close()
		return nil, err
	}
	if err := repo.Seed(ctx, items); err != nil {
		repo.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return repo, nil
}

// openMenuCache returns the Redis menu cache, or a no-op cache when Redis is
// not configured or not reachable.
func openMenuCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalog.MenuCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, menu cache disabled")
		return catalog.NopCache{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, menu cache disabled",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err))
		client.Close()
		return catalog.NopCache{}, func() {}
	}

	return catalog.NewRedisCache(client), func() { client.Close() }
}

// openOrderStore connects the configured order backend behind a circuit breaker.
func openOrderStore(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (orders.Store, error) {
	var store orders.Store

	switch cfg.OrderStore {
	case config.OrderStorePostgres:
		pg, err := orders.NewPostgresStore(&orders.Credentials{
			Host:              cfg.DBHost,
			Port:              cfg.DBPort,
			User:              cfg.DBUser,
			Password:          cfg.DBPassword,
			DBName:            cfg.DBName,
			MigrationsDirPath: cfg.OrdersMigrationsPath,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrate {
			if err := pg.RunMigrations(cfg.OrdersMigrationsPath); err != nil {
				pg.Close()
				return nil, fmt.Errorf("migrate orders: %w", err)
			}
		}
		store = pg

	case config.OrderStoreMongo:
		db, err := orders.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		mg := orders.NewMongoStore(db)
		if migrate {
			if err := mg.CreateIndexes(ctx); err != nil {
				mg.Close()
				return nil, fmt.Errorf("create order indexes: %w", err)
			}
		}
		store = mg

	default:
		logger.Warn("using in-memory order store, orders are lost on restart")
		return orders.NewMemoryStore(), nil
	}

	logger.Info("order store ready", zap.String("backend", cfg.OrderStore))
	return orders.NewBreakerStore(store, orders.BreakerSettings{}, logger), nil
}
