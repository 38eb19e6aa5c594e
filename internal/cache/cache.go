package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheItem represents a cached item with expiration
type CacheItem struct {
	Value      interface{}
	Expiration int64
}

// IsExpired checks if the item has expired
func (item CacheItem) IsExpired() bool {
	if item.Expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > item.Expiration
}

// Cache is a bounded in-memory cache with TTL support
type Cache struct {
	items      map[string]CacheItem
	gen        uint64 // bumped by Delete and Clear; loads started earlier are not stored
	mu         sync.RWMutex
	defaultTTL time.Duration
	maxSize    int
	group      singleflight.Group
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewCache creates a new cache instance and starts its janitor
func NewCache(defaultTTL time.Duration, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	c := &Cache{
		items:      make(map[string]CacheItem),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		stop:       make(chan struct{}),
	}

	go c.cleanup(time.Minute)

	return c
}

// Get retrieves an item from the cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	if item.IsExpired() {
		c.Delete(key)
		return nil, false
	}

	return item.Value, true
}

// Set stores an item in the cache with default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores an item with custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOne()
	}
	c.items[key] = CacheItem{
		Value:      value,
		Expiration: expiration,
	}
	c.mu.Unlock()
}

// setIfGen stores value unless the cache was invalidated after gen was read
func (c *Cache) setIfGen(key string, value interface{}, gen uint64) {
	var expiration int64
	if c.defaultTTL > 0 {
		expiration = time.Now().Add(c.defaultTTL).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOne()
	}
	c.items[key] = CacheItem{Value: value, Expiration: expiration}
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.gen++
	c.mu.Unlock()
	c.group.Forget(key)
}

// GetOrLoad gets from cache or loads using the provided function.
// Concurrent loads of the same key share one loader call.
func (c *Cache) GetOrLoad(key string, loader func() (interface{}, error)) (interface{}, error) {
	if val, found := c.Get(key); found {
		return val, nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if val, found := c.Get(key); found {
			return val, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		result, err := loader()
		if err != nil {
			return nil, err
		}

		c.setIfGen(key, result, gen)
		return result, nil
	})

	return val, err
}

// evictOne removes one expired item, or the one expiring soonest. Caller holds mu.
func (c *Cache) evictOne() {
	var victim string
	var soonest int64

	for key, item := range c.items {
		if item.IsExpired() {
			delete(c.items, key)
			return
		}
		if victim == "" || (item.Expiration > 0 && (soonest == 0 || item.Expiration < soonest)) {
			victim = key
			soonest = item.Expiration
		}
	}

	if victim != "" {
		delete(c.items, victim)
	}
}

// cleanup periodically removes expired items until Close
func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for key, item := range c.items {
				if item.IsExpired() {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// Close stops the janitor goroutine
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Size returns the number of items in the cache
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]CacheItem)
	c.gen++
	c.mu.Unlock()
}
