package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
)

// ByteStore caches serialized computed results across instances. Bundle-match
// results are the only values stored here; misses are always safe because the
// matcher recomputes from the database.
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// NewByteStore returns a Redis-backed store when Redis is enabled in config,
// and an in-process fallback otherwise.
func NewByteStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) ByteStore {
	if !cfg.RedisEnabled {
		return NewLocalByteStore()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return &redisByteStore{client: client, log: log.Named("cache.redis")}
}

type redisByteStore struct {
	client *redis.Client
	log    *zap.Logger
}

func (s *redisByteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

func (s *redisByteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *redisByteStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// NewLocalByteStore returns the in-process fallback store.
func NewLocalByteStore() ByteStore {
	return &localByteStore{inner: NewTTLCache[string, []byte]()}
}

type localByteStore struct {
	inner *TTLCache[string, []byte]
}

func (s *localByteStore) Get(_ context.Context, key string) ([]byte, bool) {
	return s.inner.Get(key)
}

func (s *localByteStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.inner.Set(key, value, ttl)
}

func (s *localByteStore) Delete(_ context.Context, key string) {
	s.inner.Delete(key)
}
