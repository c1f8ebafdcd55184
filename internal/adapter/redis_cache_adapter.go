package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-craft/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCacheAdapter implements domain.Cache on top of go-redis.
type RedisCacheAdapter struct {
	client redis.Cmdable
}

// NewRedisCacheAdapter wraps a connected client.
func NewRedisCacheAdapter(client redis.Cmdable) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client}
}

// Get returns domain.ErrCacheMiss for absent keys.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NoopCache is used when no Redis address is configured. Every Get misses.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (string, error) { return "", domain.ErrCacheMiss }
func (NoopCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (NoopCache) Delete(context.Context, string) error { return nil }
func (NoopCache) Ping(context.Context) error           { return nil }

var (
	_ domain.Cache = (*RedisCacheAdapter)(nil)
	_ domain.Cache = NoopCache{}
)
