package storage

import (
	"context"
	"fmt"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/validation"
)

// Open returns the Counter selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Counter, error) {
	switch cfg.Backend {
	case config.BackendBolt, "":
		if err := validation.EnsureParentDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewStore(cfg.Path, cfg.Timeout)
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Timeout:  cfg.Timeout,
		})
	case config.BackendSQLite:
		if err := validation.EnsureParentDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(ctx, cfg.Path)
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
