package repository

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository/redis"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository/sqldb"
	"github.com/vncsmyrnk/ballot/internal/config"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	_ "modernc.org/sqlite"
)

// OpenCredentials builds the credential repository selected by
// cfg.CredentialStore. SQL stores are migrated before use. The returned close
// function releases the underlying connection.
func OpenCredentials(ctx context.Context, cfg *config.Config) (ports.CredentialRepository, func() error, error) {
	switch cfg.CredentialStore {
	case "memory":
		return memory.NewCredentialRepository(cfg.SessionTTL), func() error { return nil }, nil

	case "postgres", "sqlite":
		driver, dsn := sqldb.DriverPostgres, cfg.DatabaseURL
		if cfg.CredentialStore == "sqlite" {
			driver, dsn = sqldb.DriverSQLite, cfg.SQLitePath
		}
		db, err := sqldb.Open(ctx, driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := sqldb.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("credential store ready", "store", cfg.CredentialStore)
		return sqldb.NewCredentialRepository(db, cfg.SessionTTL), db.Close, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("credential store ready", "store", "redis", "addr", cfg.RedisAddr)
		return redis.NewCredentialRepository(client, cfg.SessionTTL), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", cfg.CredentialStore)
	}
}
