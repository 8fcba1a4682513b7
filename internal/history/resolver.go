package history

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

// FS is the filesystem surface the resolver probes through. pathmgr.Manager
// implements it; tests substitute counting fakes.
type FS interface {
	IsValid(path string) bool
	IsFile(path string) bool
	Stat(path string) (fs.FileInfo, error)
	List(dir string) ([]string, error)
}

// Resolver walks the configured pairs and collects every discoverable copy
// of a file. It holds no state between calls.
type Resolver struct {
	fs FS
}

func NewResolver(fsys FS) *Resolver {
	return &Resolver{fs: fsys}
}

// Resolve returns the copies of path known across pairs, newest first, plus
// whether any pair's live side contained the path. Filesystem trouble while
// probing one pair skips that pair; a file vanishing between listing and
// stat drops that single item. Resolution itself never fails.
func (r *Resolver) Resolve(path string, pairs []*syncpair.SyncPair) ([]*Item, bool) {
	canonPath, err := utils.ResolvePath(path)
	if err != nil {
		return nil, false
	}
	if !r.fs.IsValid(canonPath) {
		return nil, false
	}

	var items []*Item
	matched := false

	for _, pair := range pairs {
		rel := Classify(canonPath, pair)
		switch rel.Kind {
		case UnderVersioning:
			// A file inside the versioning tree is a snapshot, nothing
			// else about the pair applies to it.
			if it, ok := r.newItem(canonPath, VersionArchived, pair, false, false); ok {
				items = append(items, it)
			}
			continue

		case UnderLeft:
			matched = true
			items = append(items, r.liveItems(canonPath, pair, pair.RightPath, rel.Rel)...)

		case UnderRight:
			matched = true
			items = append(items, r.liveItems(canonPath, pair, pair.LeftPath, rel.Rel)...)

		default:
			continue
		}

		if pair.VersioningFolder != "" {
			items = append(items, r.archivedItems(pair, rel.Rel)...)
		}
	}

	// Newest first; equal timestamps keep per-pair emission order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})

	return items, matched
}

// liveItems emits the source item for the probed path and, when the
// counterpart exists on the other side, its mirror item.
func (r *Resolver) liveItems(canonPath string, pair *syncpair.SyncPair, otherRoot, rel string) []*Item {
	var items []*Item
	if it, ok := r.newItem(canonPath, VersionSource, pair, true, true); ok {
		items = append(items, it)
	}

	counterpart := filepath.Join(otherRoot, rel)
	if r.fs.IsValid(counterpart) {
		if it, ok := r.newItem(counterpart, VersionMirror, pair, false, true); ok {
			items = append(items, it)
		}
	}
	return items
}

// archivedItems scans the versioning folder for timestamped snapshots of
// rel. Snapshot names carry a literal " YYYY-MM-DD HHMMSS" inserted before
// the extension.
func (r *Resolver) archivedItems(pair *syncpair.SyncPair, rel string) []*Item {
	dir := filepath.Join(pair.VersioningFolder, filepath.Dir(rel))
	names, err := r.fs.List(dir)
	if err != nil {
		slog.Debug("versioning folder scan skipped", "dir", dir, "error", err)
		return nil
	}

	pattern := archivePattern(filepath.Base(rel))
	var items []*Item
	for _, name := range names {
		ok, err := doublestar.Match(pattern, name)
		if err != nil || !ok {
			continue
		}
		if it, itemOK := r.newItem(filepath.Join(dir, name), VersionArchived, pair, false, false); itemOK {
			items = append(items, it)
		}
	}
	return items
}

// newItem stats the path and builds an Item. A stat failure (vanished file,
// permission denial) drops the item.
func (r *Resolver) newItem(path string, kind VersionKind, pair *syncpair.SyncPair, isSource, isSynced bool) (*Item, bool) {
	info, err := r.fs.Stat(path)
	if err != nil {
		slog.Debug("history item dropped", "path", path, "error", err)
		return nil, false
	}
	return &Item{
		FileName: filepath.Base(path),
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		Kind:     kind,
		Path:     path,
		Folder:   filepath.Dir(path),
		Pair:     pair,
		IsSource: isSource,
		IsSynced: isSynced,
	}, true
}

// archivePattern builds the glob matching snapshot names of base, e.g.
// "doc.txt" matches "doc.txt 2024-01-01 120000.txt".
func archivePattern(base string) string {
	ext := filepath.Ext(base)
	const stamp = " [0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9] [0-9][0-9][0-9][0-9][0-9][0-9]"
	return escapeGlob(base) + stamp + escapeGlob(ext)
}

// escapeGlob neutralizes glob metacharacters in literal file names.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
