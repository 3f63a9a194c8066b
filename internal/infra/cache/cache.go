// Package cache 提供字符串键值的 TTL 缓存，Redis 可用时走 Redis，否则使用进程内缓存
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 缓存接口
type Cache interface {
	// Get 读取键，第二个返回值表示是否命中
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New 有 Redis 客户端时返回 Redis 缓存，否则返回本地缓存
func New(client *redis.Client) Cache {
	if client != nil {
		return NewRedisCache(client)
	}
	return NewLocalCache(time.Minute)
}

// RedisCache 基于 go-redis 的实现
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "charbit:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

type localEntry struct {
	value    string
	expireAt time.Time
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache 进程内缓存，后台协程定期清理过期键
type LocalCache struct {
	data   sync.Map
	stopCh chan struct{}
	once   sync.Once
}

func NewLocalCache(gcInterval time.Duration) *LocalCache {
	c := &LocalCache{stopCh: make(chan struct{})}
	go c.gc(gcInterval)
	return c
}

func (c *LocalCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data.Load(key)
	if !ok {
		return "", false, nil
	}
	entry := v.(localEntry)
	if entry.expired(time.Now()) {
		c.data.Delete(key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := localEntry{value: value}
	if ttl > 0 {
		entry.expireAt = time.Now().Add(ttl)
	}
	c.data.Store(key, entry)
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.data.Delete(key)
	return nil
}

// Close 停止清理协程
func (c *LocalCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}

func (c *LocalCache) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.data.Range(func(k, v interface{}) bool {
				if v.(localEntry).expired(now) {
					c.data.Delete(k)
				}
				return true
			})
		case <-c.stopCh:
			return
		}
	}
}
