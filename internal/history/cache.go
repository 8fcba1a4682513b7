package history

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

type cacheEntry struct {
	items   []*Item
	matched bool
}

// Cache memoizes resolver output per canonical absolute path. It has no TTL
// and no background refresh; staleness is corrected only by explicit
// invalidation. Reads are lock-cheap, concurrent resolutions of the same
// path are collapsed into one filesystem scan.
type Cache struct {
	resolver *Resolver
	entries  *expirable.LRU[string, cacheEntry]
	group    singleflight.Group
}

func NewCache(resolver *Resolver) *Cache {
	return &Cache{
		resolver: resolver,
		// size 0 = unbounded, ttl 0 = entries never expire
		entries: expirable.NewLRU[string, cacheEntry](0, nil, 0),
	}
}

// GetOrResolve returns the cached history for path or resolves and caches
// it.
func (c *Cache) GetOrResolve(path string, pairs []*syncpair.SyncPair) ([]*Item, bool) {
	key := cacheKey(path)
	if entry, ok := c.entries.Get(key); ok {
		return entry.items, entry.matched
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		if entry, ok := c.entries.Get(key); ok {
			return entry, nil
		}
		items, matched := c.resolver.Resolve(key, pairs)
		entry := cacheEntry{items: items, matched: matched}
		c.entries.Add(key, entry)
		return entry, nil
	})

	entry := v.(cacheEntry)
	return entry.items, entry.matched
}

// Invalidate drops the entry for one path, forcing a re-scan on the next
// lookup.
func (c *Cache) Invalidate(path string) {
	c.entries.Remove(cacheKey(path))
}

// InvalidateAll clears the whole cache. Wired to registry change
// notifications so a new pair set never serves stale histories.
func (c *Cache) InvalidateAll() {
	c.entries.Purge()
}

// Len returns the number of cached histories.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func cacheKey(path string) string {
	if canon, err := utils.ResolvePath(path); err == nil {
		return canon
	}
	return path
}
