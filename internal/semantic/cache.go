package semantic

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// VectorCache memoizes section vectors by section identity. It is the
// only mutable structure shared by the scoring workers; singleflight
// guarantees each key's vector is computed at most once even when
// several workers ask for it concurrently.
type VectorCache struct {
	mu    sync.RWMutex
	vecs  map[string]Vector
	group singleflight.Group
}

func NewVectorCache() *VectorCache {
	return &VectorCache{vecs: make(map[string]Vector)}
}

// Vector returns the cached vector for key, computing it with fn on the
// first request.
func (c *VectorCache) Vector(key string, fn func() Vector) Vector {
	c.mu.RLock()
	v, ok := c.vecs[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	out, _, _ := c.group.Do(key, func() (any, error) {
		v := fn()
		c.mu.Lock()
		c.vecs[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return out.(Vector)
}

// Len returns the number of cached vectors.
func (c *VectorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vecs)
}
