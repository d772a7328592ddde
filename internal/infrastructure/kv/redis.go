package kv

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each slot in one Redis key. No TTL: slots are durable
// state, not a cache.
type RedisStore struct {
	Rdb    *redis.Client
	Prefix string // optional key prefix, e.g. "sheettochain:"
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Rdb: rdb}
}

func (s *RedisStore) key(slot string) string {
	return s.Prefix + slot
}

func (s *RedisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	b, err := s.Rdb.Get(ctx, s.key(slot)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, slot string, value []byte) error {
	return s.Rdb.Set(ctx, s.key(slot), value, 0).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Rdb.Ping(ctx).Err()
}
