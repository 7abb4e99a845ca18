package infra

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/bank_account/internal/config"
)

// Backends holds the optional external connections. Either field is nil when
// its URL is not configured.
type Backends struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Connect opens every backend whose URL is set in cfg.
func Connect(ctx context.Context, cfg config.Config) (*Backends, error) {
	b := &Backends{}
	if cfg.Database.URL != "" {
		db, err := NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.DB = db
	}
	if cfg.Redis.URL != "" {
		cache, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			b.Close(nil)
			return nil, err
		}
		b.Cache = cache
	}
	return b, nil
}

// Close releases every open backend.
func (b *Backends) Close(logger *slog.Logger) {
	if b.DB != nil {
		b.DB.Close()
	}
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil && logger != nil {
			logger.Warn("close redis", "error", err)
		}
	}
}
