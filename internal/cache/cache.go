// Package cache provides a small read-through cache for file records and
// accounts, backed by an in-process freecache arena or Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "peershare:"

type Cacher interface {
	Get(key string, value any) error
	Set(key string, value any, expiration time.Duration) error
	Delete(keys ...string) error
}

// Config mirrors config.CacheConfig without importing it, to keep this
// package free of the config dependency.
type Config struct {
	MaxSize   int
	RedisAddr string
	RedisPass string
}

// New picks Redis when an address is configured, an in-process cache
// otherwise.
func New(ctx context.Context, conf *Config) Cacher {
	if conf.RedisAddr == "" {
		return NewMemoryCache(conf.MaxSize)
	}
	return NewRedisCache(ctx, redis.NewClient(&redis.Options{
		Addr:         conf.RedisAddr,
		Password:     conf.RedisPass,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}))
}

type MemoryCache struct {
	cache *freecache.Cache
}

func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = 8 * 1024 * 1024
	}
	return &MemoryCache{cache: freecache.NewCache(size)}
}

func (m *MemoryCache) Get(key string, value any) error {
	data, err := m.cache.Get([]byte(keyPrefix + key))
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, value)
}

func (m *MemoryCache) Set(key string, value any, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return m.cache.Set([]byte(keyPrefix+key), data, int(expiration.Seconds()))
}

func (m *MemoryCache) Delete(keys ...string) error {
	for _, key := range keys {
		m.cache.Del([]byte(keyPrefix + key))
	}
	return nil
}

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(ctx context.Context, client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ctx: ctx}
}

func (r *RedisCache) Get(key string, value any) error {
	data, err := r.client.Get(r.ctx, keyPrefix+key).Bytes()
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, value)
}

func (r *RedisCache) Set(key string, value any, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, keyPrefix+key, data, expiration).Err()
}

func (r *RedisCache) Delete(keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = keyPrefix + key
	}
	return r.client.Del(r.ctx, prefixed...).Err()
}

// Fetch reads through the cache, filling it from fn on a miss.
func Fetch[T any](cache Cacher, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var zero, value T
	err := cache.Get(key, &value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, freecache.ErrNotFound) && !errors.Is(err, redis.Nil) {
		return zero, err
	}
	value, err = fn()
	if err != nil {
		return zero, err
	}
	cache.Set(key, &value, expiration)
	return value, nil
}

// Key joins parts into a colon-separated cache key.
func Key(parts ...any) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(out, ":")
}
