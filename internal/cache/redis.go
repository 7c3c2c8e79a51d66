package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "tilores:profile:"

// RedisStore is an EntryStore backed by a Redis server, for deployments
// that want the second tier shared across processes. Entries are stored as
// JSON with a server-side TTL, so Redis handles expiry-for-space itself
// and Put never reports evictions.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore from connection options.
func NewRedisStore(opts *redis.Options) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(opts)}
}

// Close closes the underlying connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies connectivity. Useful for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Get retrieves an entry by key.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("cache: redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		zap.L().Warn("cache: redis entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &e, true
}

// Put stores an entry with a server-side expiration slightly past the
// entry TTL, keeping the stale-until-overwritten window short on Redis.
func (s *RedisStore) Put(ctx context.Context, key string, e *Entry) []*Entry {
	data, err := json.Marshal(e)
	if err != nil {
		zap.L().Warn("cache: redis entry marshal failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	expiration := e.TTL + time.Minute
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, data, expiration).Err(); err != nil {
		zap.L().Warn("cache: redis put failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Delete removes an entry if present.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		zap.L().Warn("cache: redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Len counts resident entries under the namespace prefix.
func (s *RedisStore) Len(ctx context.Context) int {
	var count int
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		zap.L().Warn("cache: redis scan failed", zap.Error(err))
	}
	return count
}
