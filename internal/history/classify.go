package history

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/verscope/verscope/internal/syncpair"
	"github.com/verscope/verscope/internal/utils"
)

// The default filesystems on these platforms fold case, so classification
// folds too; otherwise a probe path spelled differently from the configured
// root would classify as unrelated while stat calls on it succeed.
var foldPathCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// RelationKind says where a path sits relative to one folder pair.
type RelationKind int

const (
	NotRelated RelationKind = iota
	UnderLeft
	UnderRight
	UnderVersioning
)

func (k RelationKind) String() string {
	switch k {
	case UnderLeft:
		return "under-left"
	case UnderRight:
		return "under-right"
	case UnderVersioning:
		return "under-versioning"
	default:
		return "not-related"
	}
}

// Relation is the classification of a path against a pair, with the path
// relative to the matched root.
type Relation struct {
	Kind RelationKind
	Rel  string
}

// Classify determines whether absPath lives under the pair's versioning,
// left or right root. absPath must already be canonical (utils.ResolvePath).
// The versioning folder wins over left/right: a file inside the versioning
// tree is never also reported as a live copy.
func Classify(absPath string, pair *syncpair.SyncPair) Relation {
	if pair.VersioningFolder != "" {
		if rel, ok := underRoot(absPath, pair.VersioningFolder); ok {
			return Relation{Kind: UnderVersioning, Rel: rel}
		}
	}
	if rel, ok := underRoot(absPath, pair.LeftPath); ok {
		return Relation{Kind: UnderLeft, Rel: rel}
	}
	if rel, ok := underRoot(absPath, pair.RightPath); ok {
		return Relation{Kind: UnderRight, Rel: rel}
	}
	return Relation{Kind: NotRelated}
}

// underRoot reports whether path is a strict descendant of root and returns
// the relative path, keeping the probe's casing. Any failure to relate the
// two means "not under", never an error.
func underRoot(path, root string) (string, bool) {
	if root == "" {
		return "", false
	}
	canonRoot, err := utils.ResolvePath(root)
	if err != nil {
		return "", false
	}
	rootSegs := splitSegments(canonRoot)
	pathSegs := splitSegments(path)
	if len(pathSegs) <= len(rootSegs) {
		return "", false
	}
	for i, seg := range rootSegs {
		if !segmentEqual(seg, pathSegs[i]) {
			return "", false
		}
	}
	return filepath.Join(pathSegs[len(rootSegs):]...), true
}

func segmentEqual(a, b string) bool {
	if foldPathCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func splitSegments(path string) []string {
	clean := filepath.Clean(path)
	sep := string(filepath.Separator)
	// Clean keeps a trailing separator only on roots ("/", `C:\`).
	if clean == sep {
		return []string{""}
	}
	clean = strings.TrimSuffix(clean, sep)
	return strings.Split(clean, sep)
}
