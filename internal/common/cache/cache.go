package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"kaliroot-admin/internal/platform/redis"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// CacheService stores JSON values in redis. Without a redis client it keeps
// them in process memory.
type CacheService struct {
	redisClient redis.RedisClient

	mu    sync.Mutex
	local map[string]entry
	now   func() time.Time
}

type entry struct {
	data    []byte
	expires time.Time
}

func NewCacheService(redisClient redis.RedisClient) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		local:       make(map[string]entry),
		now:         time.Now,
	}
}

func (c *CacheService) Get(ctx context.Context, key string) ([]byte, error) {
	if c.redisClient != nil {
		data, err := c.redisClient.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return data, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.local[key]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.local, key)
		return nil, ErrMiss
	}
	return e.data, nil
}

func (c *CacheService) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.redisClient != nil {
		return c.redisClient.Set(ctx, key, data, ttl).Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{data: data}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.local[key] = e
	return nil
}

// GetJSON decodes a cached value into dest.
func (c *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *CacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	if c.redisClient != nil {
		return c.redisClient.Del(ctx, keys...).Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.local, k)
	}
	return nil
}

// GetOrSet returns the cached value for key or stores the result of setter.
// Cache failures never fail the call, only setter errors do.
func GetOrSet[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, setter func() (T, error)) (T, bool, error) {
	var out T
	if c != nil && ttl > 0 {
		if err := c.GetJSON(ctx, key, &out); err == nil {
			return out, true, nil
		}
	}

	out, err := setter()
	if err != nil {
		return out, false, err
	}
	if c != nil && ttl > 0 {
		_ = c.SetJSON(ctx, key, out, ttl)
	}
	return out, false, nil
}
