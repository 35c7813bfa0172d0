package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"PerfMap-App/internal/domain/repository"
)

// OpenRedis アドレスが空なら nil を返す（キャッシュ無効）
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// RedisPayloadCache レスポンスボディをTTL付きでRedisに置く
type RedisPayloadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPayloadCache client が nil なら nil を返す
func NewRedisPayloadCache(client *redis.Client, ttl time.Duration) repository.PayloadCache {
	if client == nil {
		return nil
	}
	return &RedisPayloadCache{client: client, ttl: ttl}
}

// Get キーが無い場合は (nil, false, nil)
func (c *RedisPayloadCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Redisからの読み込みに失敗: %w", err)
	}
	return value, true, nil
}

func (c *RedisPayloadCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("Redisへの書き込みに失敗: %w", err)
	}
	return nil
}

