package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps a value with its expiry.
type cacheItem[V any] struct {
	Value     V
	ExpiredAt time.Time
}

// TTLCache is a size-bounded LRU whose entries also expire after ttl.
type TTLCache[K comparable, V any] struct {
	storage *lru.Cache[K, cacheItem[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache holds at most size entries, each valid for ttl.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	if size <= 0 {
		size = 1
	}
	// lru.New only fails for non-positive sizes.
	c, _ := lru.New[K, cacheItem[V]](size)
	return &TTLCache[K, V]{storage: c, ttl: ttl, now: time.Now}
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, cacheItem[V]{Value: value, ExpiredAt: c.now().Add(c.ttl)})
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.Value, true
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.storage.Remove(key)
}

func (c *TTLCache[K, V]) Clear() {
	c.storage.Purge()
}

func (c *TTLCache[K, V]) Len() int {
	return c.storage.Len()
}
