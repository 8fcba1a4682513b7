package history

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verscope/verscope/internal/pathmgr"
	"github.com/verscope/verscope/internal/syncpair"
)

// countingFS wraps a real FS and counts probe calls.
type countingFS struct {
	inner FS
	calls atomic.Int64
}

func (c *countingFS) IsValid(path string) bool {
	c.calls.Add(1)
	return c.inner.IsValid(path)
}

func (c *countingFS) IsFile(path string) bool {
	c.calls.Add(1)
	return c.inner.IsFile(path)
}

func (c *countingFS) Stat(path string) (fs.FileInfo, error) {
	c.calls.Add(1)
	return c.inner.Stat(path)
}

func (c *countingFS) List(dir string) ([]string, error) {
	c.calls.Add(1)
	return c.inner.List(dir)
}

func cacheFixture(t *testing.T) (*Cache, *countingFS, *syncpair.SyncPair, string) {
	t.Helper()
	pair := fixture(t)
	source := filepath.Join(pair.LeftPath, "doc.txt")
	writeFileAt(t, source, time.Now().Add(-time.Hour))

	counting := &countingFS{inner: pathmgr.NewManager()}
	cache := NewCache(NewResolver(counting))
	return cache, counting, pair, source
}

func TestCache_MemoizesResolution(t *testing.T) {
	cache, counting, pair, source := cacheFixture(t)
	pairs := []*syncpair.SyncPair{pair}

	first, matched := cache.GetOrResolve(source, pairs)
	require.True(t, matched)
	require.Len(t, first, 1)
	scans := counting.calls.Load()
	require.Positive(t, scans)

	// Second lookup must come from the cache without touching the fs.
	second, matched := cache.GetOrResolve(source, pairs)
	assert.True(t, matched)
	assert.Equal(t, first, second)
	assert.Equal(t, scans, counting.calls.Load())
}

func TestCache_InvalidateForcesRescan(t *testing.T) {
	cache, counting, pair, source := cacheFixture(t)
	pairs := []*syncpair.SyncPair{pair}

	cache.GetOrResolve(source, pairs)
	scans := counting.calls.Load()

	cache.Invalidate(source)
	cache.GetOrResolve(source, pairs)
	assert.Greater(t, counting.calls.Load(), scans)
}

func TestCache_InvalidateAll(t *testing.T) {
	cache, _, pair, source := cacheFixture(t)
	other := filepath.Join(pair.LeftPath, "other.txt")
	writeFileAt(t, other, time.Now())

	pairs := []*syncpair.SyncPair{pair}
	cache.GetOrResolve(source, pairs)
	cache.GetOrResolve(other, pairs)
	require.Equal(t, 2, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_KeyIsCanonical(t *testing.T) {
	cache, counting, pair, source := cacheFixture(t)
	pairs := []*syncpair.SyncPair{pair}

	cache.GetOrResolve(source, pairs)
	scans := counting.calls.Load()

	// A lexically different spelling of the same file hits the same entry.
	dotted := filepath.Join(pair.LeftPath, ".", "doc.txt")
	cache.GetOrResolve(dotted, pairs)
	assert.Equal(t, scans, counting.calls.Load())
}

func TestCache_ReflectsNewPairSetAfterInvalidation(t *testing.T) {
	cache, _, pair, source := cacheFixture(t)

	items, matched := cache.GetOrResolve(source, []*syncpair.SyncPair{pair})
	require.True(t, matched)
	require.NotEmpty(t, items)

	// Same cached answer even with no pairs, until invalidated.
	_, matched = cache.GetOrResolve(source, nil)
	assert.True(t, matched)

	cache.InvalidateAll()
	items, matched = cache.GetOrResolve(source, nil)
	assert.False(t, matched)
	assert.Empty(t, items)
}

func TestCache_ConcurrentLookupsCollapse(t *testing.T) {
	cache, _, pair, source := cacheFixture(t)
	pairs := []*syncpair.SyncPair{pair}

	var wg sync.WaitGroup
	results := make([][]*Item, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.GetOrResolve(source, pairs)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Len(t, r, 1)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCache_MissingPathStillWorks(t *testing.T) {
	cache, _, pair, _ := cacheFixture(t)
	missing := filepath.Join(pair.LeftPath, "ghost.txt")

	items, matched := cache.GetOrResolve(missing, []*syncpair.SyncPair{pair})
	assert.False(t, matched)
	assert.Empty(t, items)
	_ = os.Remove(missing)
}
