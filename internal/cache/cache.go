package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// item wraps cached data with its expiry time.
type item struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a TTL layer over an LRU map. It is handed to whoever needs it
// rather than living as package state, so tests get a fresh one each time.
type Cache struct {
	lruCache *lru.Cache[string, item]
}

func New(size int) (*Cache, error) {
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lruCache: l}, nil
}

// Set stores data under key for the given TTL.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, item{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data or nil when absent or expired.
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete drops a key.
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
