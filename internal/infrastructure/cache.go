package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/logging"
)

type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// Cache is a minimal in-memory TTL cache safe for concurrent access.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

// NewCache constructs an empty Cache instance.
func NewCache() *Cache {
	return &Cache{items: make(map[string]cacheItem)}
}

// Set stores a value with a time-to-live for the given key.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expiration: time.Now().Add(ttl)}
}

// Get retrieves a non-expired value for the key, returning false if missing or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiration) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

const hierarchyCacheKey = "workspace_hierarchy"

// HierarchyProvider fetches the workspace tree from the backend.
// Satisfied by *ClickUpClient.
type HierarchyProvider interface {
	GetWorkspaceHierarchy(ctx context.Context) (*domain.Hierarchy, error)
}

// HierarchyCache caches the workspace hierarchy behind a TTL. The
// hierarchy walk is the most expensive read in the server, so it is
// prewarmed at configuration time and refreshed lazily after expiry.
type HierarchyCache struct {
	provider HierarchyProvider
	cache    *Cache
	ttl      time.Duration
	log      *logrus.Entry
}

// NewHierarchyCache constructs a HierarchyCache over the given provider.
func NewHierarchyCache(provider HierarchyProvider, ttl time.Duration) *HierarchyCache {
	return &HierarchyCache{
		provider: provider,
		cache:    NewCache(),
		ttl:      ttl,
		log:      logging.Component("hierarchy-cache"),
	}
}

// Prewarm fetches and caches the hierarchy. Callers treat this as
// best-effort: a returned error is logged by the caller, never surfaced
// to a client request.
func (h *HierarchyCache) Prewarm(ctx context.Context) error {
	hierarchy, err := h.provider.GetWorkspaceHierarchy(ctx)
	if err != nil {
		return err
	}
	h.cache.Set(hierarchyCacheKey, hierarchy, h.ttl)
	h.log.Debug("workspace hierarchy prewarmed")
	return nil
}

// Lookup returns the cached hierarchy, fetching from the backend when
// the cache is cold or expired.
func (h *HierarchyCache) Lookup(ctx context.Context) (*domain.Hierarchy, error) {
	if v, ok := h.cache.Get(hierarchyCacheKey); ok {
		return v.(*domain.Hierarchy), nil
	}

	hierarchy, err := h.provider.GetWorkspaceHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	h.cache.Set(hierarchyCacheKey, hierarchy, h.ttl)
	return hierarchy, nil
}
