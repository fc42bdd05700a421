package ghclient

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ghrecap/ghrecap/internal/model"
)

// DetailCache memoizes fetched pull request snapshots for the lifetime of
// the process, keyed by the canonical detail-API URL. Entries are immutable
// once written and survive until an explicit Clear; construct one cache and
// pass it to every enrichment call so repeated references to the same PR
// share a single fetch.
type DetailCache struct {
	mu      sync.RWMutex
	entries map[string]model.Detail
	group   singleflight.Group
}

// NewDetailCache returns an empty cache.
func NewDetailCache() *DetailCache {
	return &DetailCache{
		entries: make(map[string]model.Detail),
	}
}

// Get returns the cached snapshot for key, if present.
func (c *DetailCache) Get(key string) (model.Detail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[key]
	return d, ok
}

// GetOrFetch returns the cached snapshot for key, fetching and storing it on
// a miss. Concurrent callers of the same key are collapsed onto one fetch.
// Fetch failures are not cached; the next call retries.
func (c *DetailCache) GetOrFetch(key string, fetch func() (model.Detail, error)) (model.Detail, error) {
	if d, ok := c.Get(key); ok {
		return d, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if d, ok := c.Get(key); ok {
			return d, nil
		}
		d, err := fetch()
		if err != nil {
			return model.Detail{}, err
		}
		c.mu.Lock()
		c.entries[key] = d
		c.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return model.Detail{}, err
	}
	return v.(model.Detail), nil
}

// Len returns the number of cached snapshots.
func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every cached snapshot.
func (c *DetailCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.Detail)
}
