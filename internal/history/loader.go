package history

import (
	"sync"

	"github.com/verscope/verscope/internal/syncpair"
)

// Result is the outcome of one asynchronous history load.
type Result struct {
	Path    string
	Items   []*Item
	Matched bool
}

// Loader runs history resolutions off the interactive thread. At most one
// load is observable at a time: starting a new load abandons any in-flight
// one by bumping a generation counter, and a stale load's result is
// discarded instead of overwriting the newer one.
//
// For each load that is still current on completion the subscriber sees
// exactly one Started and one Finished call, in that order, even when the
// resolution came back empty.
type Loader struct {
	cache *Cache

	mu  sync.Mutex
	gen uint64

	// Started fires synchronously when a load is accepted, Finished fires
	// from the worker goroutine with the published result.
	Started  func(path string)
	Finished func(res Result)
}

func NewLoader(cache *Cache) *Loader {
	return &Loader{cache: cache}
}

// Load resolves path in the background. Cancellation of a superseded load
// is by abandonment: the resolution may still run to completion, but its
// result is never published.
func (l *Loader) Load(path string, pairs []*syncpair.SyncPair) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	if l.Started != nil {
		l.Started(path)
	}

	go func() {
		items, matched := l.cache.GetOrResolve(path, pairs)
		l.publish(gen, Result{Path: path, Items: items, Matched: matched})
	}()
}

// LoadSync resolves path on the calling goroutine with the same
// notification contract.
func (l *Loader) LoadSync(path string, pairs []*syncpair.SyncPair) Result {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	if l.Started != nil {
		l.Started(path)
	}

	items, matched := l.cache.GetOrResolve(path, pairs)
	res := Result{Path: path, Items: items, Matched: matched}
	l.publish(gen, res)
	return res
}

// Cancel abandons any in-flight load without starting a new one.
func (l *Loader) Cancel() {
	l.mu.Lock()
	l.gen++
	l.mu.Unlock()
}

func (l *Loader) publish(gen uint64, res Result) {
	l.mu.Lock()
	current := gen == l.gen
	l.mu.Unlock()

	if current && l.Finished != nil {
		l.Finished(res)
	}
}
