package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"checkin-server-go/config"
)

// RedisStore handles operations with the Redis database.
// Every key is stored as {namespace}:{key}.
type RedisStore struct {
	Client    *redis.Client
	Namespace string
}

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		Client:    client,
		Namespace: namespace,
	}
}

// Helper to generate the namespaced redis key
func (s *RedisStore) redisKey(key string) string {
	if s.Namespace == "" {
		return key
	}
	return s.Namespace + ":" + key
}

// Get returns the value stored under key
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.Client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		log.Printf("Error getting key %s: %v", key, err)
		return "", fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with no expiry
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.Client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		log.Printf("Error setting key %s: %v", key, err)
		return fmt.Errorf("failed to set %s in Redis: %w", key, err)
	}
	return nil
}

// Remove deletes key; removing a missing key is not an error
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		log.Printf("Error removing key %s: %v", key, err)
		return fmt.Errorf("failed to remove %s from Redis: %w", key, err)
	}
	return nil
}

// Apply runs all ops in a MULTI/EXEC transaction
func (s *RedisStore) Apply(ctx context.Context, ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			if op.Remove {
				pipe.Del(ctx, s.redisKey(op.Key))
				continue
			}
			pipe.Set(ctx, s.redisKey(op.Key), op.Value, 0)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error applying %d ops: %v", len(ops), err)
		return fmt.Errorf("failed to apply batch to Redis: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Successfully connected to Redis %s DB %d", cfg.Addr, cfg.DB)
	return rdb, nil
}
