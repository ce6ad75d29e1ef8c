// Package redisstore provides a Redis implementation of KVStore.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/focusquest/focusquest/internal/domain"
)

// Store implements domain.KVStore with one Redis string per key,
// named "<namespace>:<key>".
type Store struct {
	client    redis.Cmdable
	closer    func() error
	namespace string
}

// New creates a Store over an existing client.
func New(client redis.Cmdable, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		client:    client,
		namespace: namespace,
		closer:    func() error { return nil },
	}
}

// Open connects to the Redis server at addr.
func Open(addr string, db int, namespace string) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	s := New(rdb, namespace)
	s.closer = rdb.Close
	return s
}

// Close closes the client if the store opened it.
func (s *Store) Close() error {
	return s.closer()
}

// redisKey returns the namespaced Redis key.
func (s *Store) redisKey(key string) string {
	return s.namespace + ":" + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Update stores value under key without expiry.
func (s *Store) Update(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Initialize writes the initialized marker if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.client.SetNX(ctx, s.redisKey("initialized"), "1", 0).Err(); err != nil {
		return fmt.Errorf("redis init: %w", err)
	}
	return nil
}

// IsInitialized reports whether the marker exists.
func (s *Store) IsInitialized(ctx context.Context) bool {
	n, err := s.client.Exists(ctx, s.redisKey("initialized")).Result()
	return err == nil && n > 0
}

// Ensure Store implements the store ports.
var (
	_ domain.KVStore          = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
