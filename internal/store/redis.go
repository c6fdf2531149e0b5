package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store with one Redis hash per client.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects to addr and verifies the connection.
// Client hashes expire ttl after their last write; zero disables expiry.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisStore{
		client: client,
		prefix: "jarvis:client:",
		ttl:    ttl,
		logger: logger.With("component", "store", "backend", "redis"),
	}, nil
}

func (r *RedisStore) key(clientID string) string {
	return r.prefix + clientID
}

func (r *RedisStore) GetItem(ctx context.Context, clientID, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key(clientID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) SetItem(ctx context.Context, clientID, key, value string) error {
	r.logger.Debug("hset", "client", clientID, "key", key)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key(clientID), key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key(clientID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set item %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) RemoveItem(ctx context.Context, clientID, key string) error {
	if err := r.client.HDel(ctx, r.key(clientID), key).Err(); err != nil {
		return fmt.Errorf("remove item %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) DeleteClient(ctx context.Context, clientID string) error {
	return r.client.Del(ctx, r.key(clientID)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Migrate is a no-op; Redis needs no schema.
func (r *RedisStore) Migrate(_ context.Context) error {
	return nil
}
