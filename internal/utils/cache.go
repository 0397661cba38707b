package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"go.uber.org/zap"
)

// CacheItem wraps cached data with its expiry time.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// GlobalCache is a small in-process LRU used for cheap, frequently rebuilt
// query results (the suggested-users sidebar). Entries are invalidated
// explicitly on mutation and expire on their own after the TTL.
type GlobalCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache returns the singleton cache instance.
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, CacheItem](500)
		if err != nil {
			Logger.Fatal("failed to create LRU cache", zap.Error(err))
		}
		cacheInstance = &GlobalCache{lruCache: l}
	})
	return cacheInstance
}

// Get returns the cached value, or nil when absent or expired.
func (c *GlobalCache) Get(key string) interface{} {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(item.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return item.Data
}

// Set stores a value with the given TTL.
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Delete removes a key.
func (c *GlobalCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Purge drops every entry.
func (c *GlobalCache) Purge() {
	c.lruCache.Purge()
}
