package local

import (
	"sync"

	"github.com/aretw0/glosa/pkg/core"
)

// cache is a per-instance uuid -> annotation map for fast re-lookup of
// records already seen by this store. It is never the source of truth; the
// backing store is. Each Store owns exactly one cache and nothing shares it.
type cache struct {
	mu      sync.RWMutex
	entries map[string]core.Annotation
}

func newCache() *cache {
	return &cache{
		entries: make(map[string]core.Annotation),
	}
}

// Get returns a defensive copy of the cached annotation for uuid.
func (c *cache) Get(uuid string) (core.Annotation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.entries[uuid]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Set stores a copy of the annotation under uuid.
func (c *cache) Set(uuid string, a core.Annotation) {
	if uuid == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uuid] = a.Clone()
}

// Evict removes the entry for uuid, if present.
func (c *cache) Evict(uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uuid)
}

// ReplaceAll swaps the whole cache content for the given set, keyed by uuid.
func (c *cache) ReplaceAll(results []core.Annotation) {
	entries := make(map[string]core.Annotation, len(results))
	for _, a := range results {
		if uuid := a.UUID(); uuid != "" {
			entries[uuid] = a.Clone()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
}

// Len returns the number of cached entries.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
