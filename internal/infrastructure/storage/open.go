// Package storage selects and opens the durable key-value store the console
// session is persisted to.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/ports"
	"github.com/samarth/admin-console/internal/infrastructure/config"
	mongokv "github.com/samarth/admin-console/internal/infrastructure/db/mongo"
	rediskv "github.com/samarth/admin-console/internal/infrastructure/db/redis"
)

// Store is a KeyValueStore that can report whether its backend is reachable.
type Store interface {
	ports.KeyValueStore
	Ping(ctx context.Context) error
}

// CloseFunc releases whatever connection a Store holds.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the Store named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (Store, CloseFunc, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("using in-memory session storage, sessions will not survive a restart")
		return NewMemoryStore(), noopClose, nil

	case "file", "":
		fs, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Path).Msg("using file session storage")
		return fs, noopClose, nil

	case "redis":
		client, err := rediskv.Connect(ctx, rediskv.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("using redis session storage")
		return rediskv.NewKVStore(client, cfg.Redis.Prefix), func(context.Context) error {
			return client.Close()
		}, nil

	case "mongo":
		client, db, err := mongokv.Connect(ctx, mongokv.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("using mongo session storage")
		return mongokv.NewKVStore(db, cfg.Mongo.Collection, ""), client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("open storage: unknown driver %q", cfg.Driver)
	}
}
