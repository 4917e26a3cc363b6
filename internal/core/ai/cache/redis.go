package cache

import (
	"context"
	"fmt"

	"perfume-pal/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// redisStore keeps cached responses in Redis so they survive restarts and can
// be shared between instances.
type redisStore struct {
	client *redis.Client
	config *config.CacheConfig
}

func newRedisStore(cfg *config.CacheConfig) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisStore{
		client: client,
		config: cfg,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.namespaced(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.namespaced(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *redisStore) namespaced(key string) string {
	return "ai:response:" + key
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
