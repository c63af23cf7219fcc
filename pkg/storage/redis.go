package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/paylaterhq/storefront-core/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Redis adapts a Redis instance to the Store port. Used where the
// storefront shell shares device state through a local Redis, e.g. kiosk
// deployments.
type Redis struct {
	raw *redis.Client
}

// NewRedis bootstraps the client from config and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.StorageConfig) (*Redis, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.RedisDialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.RedisReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.RedisWriteTimeout
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{raw: raw}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.raw.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.raw.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.raw.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.raw.Close()
}
