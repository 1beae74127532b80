// Package store owns the local projection of habits and daily completion
// logs, and the key-value persistence boundary it is written through.
package store

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by KV.Get when the key has never been written.
var ErrMiss = errors.New("kv miss")

// KV is the opaque persistence boundary for the serialized projection.
// The projection lives under a single namespaced key; values are opaque
// strings to the backend.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// RedisKV persists through a redis instance. Suitable when the embedding
// deployment already runs redis with persistence enabled.
type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string) error {
	// No TTL: the projection is durable state, not a cache.
	return r.c.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, key).Err()
}
