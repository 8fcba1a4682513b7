package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/rjeczalik/notify"

	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

// Watch reloads sync job configs when they change on disk and keeps
// watching until ctx is cancelled. Each loaded config's parent directory is
// watched; events for unrelated files are ignored. The watch set follows
// the registry, so configs added or removed while watching are picked up.
func (a *App) Watch(ctx context.Context) error {
	events := make(chan notify.EventInfo, 16)
	defer notify.Stop(events)

	changed := make(chan struct{}, 1)
	a.Registry.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	watched := rewatch(a.Registry, events)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			watched = rewatch(a.Registry, events)
		case ev := <-events:
			canon, err := utils.ResolvePath(ev.Path())
			if err != nil {
				continue
			}
			cfgPath, ok := matchWatched(watched, canon)
			if !ok {
				continue
			}
			slog.Info("sync config changed, reloading", "path", cfgPath, "event", ev.Event())
			if err := a.Registry.Reload(cfgPath); err != nil {
				slog.Warn("sync config reload failed", "path", cfgPath, "error", err)
			}
		}
	}
}

// rewatch drops all watchpoints on events and re-establishes them from the
// registry's current config paths. Returns canonical config path -> raw
// path as registered.
func rewatch(reg *syncpair.Registry, events chan notify.EventInfo) map[string]string {
	notify.Stop(events)

	watched := make(map[string]string)
	dirs := make(map[string]struct{})
	for _, cfgPath := range reg.ConfigPaths() {
		canon, err := utils.ResolvePath(cfgPath)
		if err != nil {
			continue
		}
		watched[canon] = cfgPath
		dirs[filepath.Dir(canon)] = struct{}{}
	}

	for dir := range dirs {
		if err := notify.Watch(dir, events, notify.Write, notify.Create, notify.Rename, notify.Remove); err != nil {
			slog.Warn("watch sync config dir", "dir", dir, "error", err)
			continue
		}
		slog.Debug("watching sync config dir", "dir", dir)
	}
	return watched
}

// matchWatched finds the registered config a canonical event path refers
// to, folding case the way the filesystem does.
func matchWatched(watched map[string]string, canon string) (string, bool) {
	for k, v := range watched {
		if utils.PathsEqual(k, canon) {
			return v, true
		}
	}
	return "", false
}
