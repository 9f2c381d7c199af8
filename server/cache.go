package server

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// wavCache holds encoded renders keyed by canonical share query.
// When full it is emptied; entries are cheap to regenerate.
// Renders run outside the lock, and concurrent misses on one key share a
// single render.
type wavCache struct {
	mu    sync.RWMutex
	store map[string][]byte
	limit int
	sf    singleflight.Group
}

func newWAVCache(limit int) *wavCache {
	return &wavCache{store: make(map[string][]byte), limit: limit}
}

func (c *wavCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.store[key]
	return data, ok
}

// getOrRender returns the cached bytes for key or stores the result of fn
func (c *wavCache) getOrRender(key string, fn func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok := c.get(key); ok {
		return data, true, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// A flight that finished just before this one already stored it
		if data, ok := c.get(key); ok {
			return data, nil
		}
		data, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if len(c.store) >= c.limit {
			clear(c.store)
		}
		c.store[key] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

func (c *wavCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
