package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tkbshop/storefront/pkg/config"
)

const redisKeyNamespace = "tkbshop:kv"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore persists keys in redis, for storefront kiosks that share
// local state across processes.
type RedisStore struct {
	store  cmdable
	closer interface{ Close() error }
}

// NewRedisStore bootstraps a redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, closer: raw}, nil
}

// NewRedisStoreWithClient wraps an existing command surface, used by tests.
func NewRedisStoreWithClient(store cmdable) (*RedisStore, error) {
	if store == nil {
		return nil, errors.New("redis command surface is required")
	}
	return &RedisStore{store: store}, nil
}

// Close shuts down the owned client; stores wrapping a borrowed client
// leave it open.
func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

func (r *RedisStore) namespaced(key string) string {
	return fmt.Sprintf("%s:%s", redisKeyNamespace, key)
}

func (r *RedisStore) Read(key string) ([]byte, bool) {
	raw, err := r.store.Get(context.Background(), r.namespaced(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (r *RedisStore) Write(key string, raw []byte) error {
	return r.store.Set(context.Background(), r.namespaced(key), raw, 0).Err()
}

func (r *RedisStore) Remove(key string) error {
	return r.store.Del(context.Background(), r.namespaced(key)).Err()
}
