package syncpair

import (
	"log/slog"
	"slices"
	"sync"
)

// Registry holds the folder pairs loaded from sync-tool job configs. It is
// safe for concurrent use; change subscribers are notified after every
// mutation so dependent caches can invalidate.
type Registry struct {
	mu          sync.RWMutex
	pairs       []*SyncPair
	configPaths map[string]struct{}
	onChange    []func()
}

func NewRegistry() *Registry {
	return &Registry{
		configPaths: make(map[string]struct{}),
	}
}

// OnChange registers a callback fired after the pair set changes. Callbacks
// run outside the registry lock.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Add parses each config file and registers its pairs. Errors are reported
// per path; one bad config never aborts the rest of the batch. Adding a
// config whose pairs are already registered is a no-op.
func (r *Registry) Add(configPaths ...string) []error {
	errs := make([]error, len(configPaths))
	changed := false

	for i, configPath := range configPaths {
		parser, err := ParserFor(configPath)
		if err != nil {
			errs[i] = err
			continue
		}

		pairs, err := parser.Parse(configPath)
		if err != nil {
			slog.Error("sync config parse failed", "path", configPath, "error", err)
			errs[i] = err
			continue
		}

		r.mu.Lock()
		for _, pair := range pairs {
			if r.containsLocked(pair) {
				continue
			}
			r.pairs = append(r.pairs, pair)
			changed = true
		}
		r.configPaths[configPath] = struct{}{}
		r.mu.Unlock()
	}

	if changed {
		r.notify()
	}
	return errs
}

// Remove drops every pair loaded from the given config file. Returns
// whether anything was removed.
func (r *Registry) Remove(configPath string) bool {
	r.mu.Lock()
	before := len(r.pairs)
	r.pairs = slices.DeleteFunc(r.pairs, func(p *SyncPair) bool {
		return p.ConfigPath == configPath
	})
	delete(r.configPaths, configPath)
	removed := len(r.pairs) != before
	r.mu.Unlock()

	if removed {
		r.notify()
	}
	return removed
}

// Reload re-parses one config file, replacing its pairs wholesale. Used by
// the config watcher when a job file changes on disk.
func (r *Registry) Reload(configPath string) error {
	parser, err := ParserFor(configPath)
	if err != nil {
		return err
	}

	pairs, err := parser.Parse(configPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.pairs = slices.DeleteFunc(r.pairs, func(p *SyncPair) bool {
		return p.ConfigPath == configPath
	})
	for _, pair := range pairs {
		if r.containsLocked(pair) {
			continue
		}
		r.pairs = append(r.pairs, pair)
	}
	r.configPaths[configPath] = struct{}{}
	r.mu.Unlock()

	r.notify()
	return nil
}

// Pairs returns a snapshot of the registered pairs in registration order.
func (r *Registry) Pairs() []*SyncPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*SyncPair(nil), r.pairs...)
}

// ConfigPaths returns the config files currently loaded.
func (r *Registry) ConfigPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.configPaths))
	for p := range r.configPaths {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func (r *Registry) containsLocked(pair *SyncPair) bool {
	for _, existing := range r.pairs {
		if existing.Equal(pair) {
			return true
		}
	}
	return false
}

func (r *Registry) notify() {
	r.mu.RLock()
	subs := make([]func(), len(r.onChange))
	copy(subs, r.onChange)
	r.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
