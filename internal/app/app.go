// Package app wires the registry, resolver, cache, loader and remarks
// store into one explicitly constructed context. Nothing in here is a
// singleton; the caller owns the App and passes it where needed.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"github.com/verscope/verscope/internal/config"
	"github.com/verscope/verscope/internal/history"
	"github.com/verscope/verscope/internal/pathmgr"
	"github.com/verscope/verscope/internal/remarks"
	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

var ErrAppLocked = errors.New("app data locked by another process")

type App struct {
	Config   *config.Config
	Paths    *pathmgr.Manager
	Registry *syncpair.Registry
	Cache    *history.Cache
	Loader   *history.Loader
	Remarks  *remarks.Store

	flock *flock.Flock
}

// New builds the app context from a loaded config. The remarks store's
// directory is guarded by a file lock so a second instance cannot corrupt
// it.
func New(cfg *config.Config) (*App, error) {
	if err := utils.EnsureParent(cfg.RemarksDBPath); err != nil {
		return nil, fmt.Errorf("prepare app dir: %w", err)
	}

	lock := flock.New(cfg.RemarksDBPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock app data: %w", err)
	}
	if !locked {
		return nil, ErrAppLocked
	}

	store, err := remarks.NewStore(cfg.RemarksDBPath)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open remarks store: %w", err)
	}

	paths := pathmgr.NewManager()
	registry := syncpair.NewRegistry()
	cache := history.NewCache(history.NewResolver(paths))
	loader := history.NewLoader(cache)

	// A changed pair set must never serve stale histories.
	registry.OnChange(cache.InvalidateAll)

	a := &App{
		Config:   cfg,
		Paths:    paths,
		Registry: registry,
		Cache:    cache,
		Loader:   loader,
		Remarks:  store,
		flock:    lock,
	}

	// Load remembered sync configs; individual failures are logged, not
	// fatal.
	for i, err := range registry.Add(cfg.SyncConfigs...) {
		if err != nil {
			slog.Warn("sync config skipped", "path", cfg.SyncConfigs[i], "error", err)
		}
	}

	return a, nil
}

// History resolves path's copies synchronously through the cache.
func (a *App) History(path string) ([]*history.Item, bool) {
	return a.Cache.GetOrResolve(path, a.Registry.Pairs())
}

// HistoryAsync schedules a background resolution; results arrive through
// the loader's callbacks.
func (a *App) HistoryAsync(path string) {
	a.Loader.Load(path, a.Registry.Pairs())
}

// Refresh drops the cached history for one path and resolves it again.
func (a *App) Refresh(path string) ([]*history.Item, bool) {
	a.Cache.Invalidate(path)
	return a.History(path)
}

// AddSyncConfig loads a job file into the registry and remembers it in the
// app config.
func (a *App) AddSyncConfig(path string) error {
	if err := a.Registry.Add(path)[0]; err != nil {
		return err
	}
	if a.Config.AddSyncConfig(path) {
		if err := a.Config.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}
	return nil
}

// RemoveSyncConfig unloads a job file and forgets it.
func (a *App) RemoveSyncConfig(path string) error {
	a.Registry.Remove(path)
	if a.Config.RemoveSyncConfig(path) {
		if err := a.Config.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if err := a.Remarks.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.flock.Locked() {
		if err := a.flock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
