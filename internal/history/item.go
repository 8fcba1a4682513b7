// Package history locates every known copy of a file across the configured
// sync folder pairs: the live source copy, its mirrored counterpart and the
// timestamped snapshots kept in a versioning folder.
package history

import (
	"sync"
	"time"

	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

// VersionKind labels the role of one discovered copy.
type VersionKind string

const (
	// VersionSource is the copy the lookup was issued for.
	VersionSource VersionKind = "source"
	// VersionMirror is the live counterpart on the other side of a pair.
	VersionMirror VersionKind = "mirror"
	// VersionArchived is a timestamped snapshot in a versioning folder.
	VersionArchived VersionKind = "archived"
)

// Item is one discovered copy of a file. Items are produced fresh on every
// resolution and never persisted.
//
// Hash and remark are filled on demand and cached on the item; dropping the
// item from the history cache drops them with it.
type Item struct {
	FileName string
	ModTime  time.Time
	Size     int64
	Kind     VersionKind
	Path     string
	Folder   string
	Pair     *syncpair.SyncPair

	// IsSource marks the copy the probed path landed on. IsSynced is true
	// for live source/mirror copies, false for archived snapshots.
	IsSource bool
	IsSynced bool

	mu     sync.Mutex
	hash   string
	remark *string
}

// Hash returns the SHA-256 of the item's content, computing it on first
// use.
func (it *Item) Hash() (string, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.hash != "" {
		return it.hash, nil
	}
	h, err := utils.FileHash(it.Path)
	if err != nil {
		return "", err
	}
	it.hash = h
	return h, nil
}

// Remark returns the user annotation for the item, fetching it through get
// on first use. get is typically remarks.Store.Get.
func (it *Item) Remark(get func(path string) string) string {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.remark == nil {
		r := get(it.Path)
		it.remark = &r
	}
	return *it.remark
}
