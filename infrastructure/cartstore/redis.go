// Package cartstore 购物车镜像存储：Redis 或进程内内存
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"storefront/domain/cart"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 7 * 24 * time.Hour

type storedCart struct {
	Items []cart.Item `json:"items"`
}

// RedisStore 以 JSON 形式保存在 cart:<owner> 下，TTL 带随机抖动避免同时过期
type RedisStore struct {
	client  redis.Cmdable
	baseTTL time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, baseTTL: ttl}
}

func (s *RedisStore) Get(ctx context.Context, ownerID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cacheKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stored storedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart.FromItems(stored.Items), nil
}

func (s *RedisStore) Set(ctx context.Context, ownerID string, c *cart.Cart) error {
	data, err := json.Marshal(storedCart{Items: c.Items()})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, cacheKey(ownerID), data, s.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, cacheKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Ping is used by the readiness check.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) ttl() time.Duration {
	jitter := time.Duration(rand.IntN(5)) * time.Minute
	return s.baseTTL + jitter
}

func cacheKey(ownerID string) string {
	return "cart:" + ownerID
}

var _ cart.Store = (*RedisStore)(nil)
