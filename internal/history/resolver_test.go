package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verscope/verscope/internal/pathmgr"
	"github.com/verscope/verscope/internal/syncpair"
)

func writeFileAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// fixture builds a pair with left/right/versioning trees on disk.
func fixture(t *testing.T) *syncpair.SyncPair {
	t.Helper()
	pair, _ := testPair(t)
	require.NoError(t, os.MkdirAll(pair.LeftPath, 0o755))
	require.NoError(t, os.MkdirAll(pair.RightPath, 0o755))
	require.NoError(t, os.MkdirAll(pair.VersioningFolder, 0o755))
	return pair
}

func newTestResolver() *Resolver {
	return NewResolver(pathmgr.NewManager())
}

func TestResolver_SourceMirrorAndArchive(t *testing.T) {
	pair := fixture(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	source := filepath.Join(pair.LeftPath, "doc.txt")
	mirror := filepath.Join(pair.RightPath, "doc.txt")
	archived := filepath.Join(pair.VersioningFolder, "doc.txt 2024-01-01 120000.txt")

	writeFileAt(t, source, base.Add(2*time.Hour))
	writeFileAt(t, mirror, base.Add(time.Hour))
	writeFileAt(t, archived, base)

	items, matched := newTestResolver().Resolve(source, []*syncpair.SyncPair{pair})
	require.True(t, matched)
	require.Len(t, items, 3)

	// Sorted by modification time descending.
	assert.Equal(t, VersionSource, items[0].Kind)
	assert.Equal(t, VersionMirror, items[1].Kind)
	assert.Equal(t, VersionArchived, items[2].Kind)

	assert.True(t, items[0].IsSource)
	assert.True(t, items[0].IsSynced)
	assert.False(t, items[1].IsSource)
	assert.True(t, items[1].IsSynced)
	assert.False(t, items[2].IsSource)
	assert.False(t, items[2].IsSynced)

	assert.Equal(t, "doc.txt", items[0].FileName)
	assert.EqualValues(t, 4, items[0].Size)
	assert.Same(t, pair, items[0].Pair)
}

func TestResolver_MirrorOnlyWhenItExists(t *testing.T) {
	pair := fixture(t)
	source := filepath.Join(pair.LeftPath, "only.txt")
	writeFileAt(t, source, time.Now().Add(-time.Hour))

	items, matched := newTestResolver().Resolve(source, []*syncpair.SyncPair{pair})
	require.True(t, matched)
	require.Len(t, items, 1)
	assert.Equal(t, VersionSource, items[0].Kind)
}

func TestResolver_RightSideActsAsSource(t *testing.T) {
	pair := fixture(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	left := filepath.Join(pair.LeftPath, "doc.txt")
	right := filepath.Join(pair.RightPath, "doc.txt")
	writeFileAt(t, left, base)
	writeFileAt(t, right, base.Add(time.Hour))

	items, matched := newTestResolver().Resolve(right, []*syncpair.SyncPair{pair})
	require.True(t, matched)
	require.Len(t, items, 2)

	// Whichever side was probed is labeled the source.
	assert.Equal(t, VersionSource, items[0].Kind)
	assert.Equal(t, right, items[0].Path)
	assert.Equal(t, VersionMirror, items[1].Kind)
	assert.Equal(t, left, items[1].Path)
}

func TestResolver_VersioningFileIsArchiveOnly(t *testing.T) {
	pair := fixture(t)
	archived := filepath.Join(pair.VersioningFolder, "doc.txt 2024-01-01 120000.txt")
	writeFileAt(t, archived, time.Now().Add(-time.Hour))

	items, matched := newTestResolver().Resolve(archived, []*syncpair.SyncPair{pair})
	assert.False(t, matched, "versioning membership is not a live-side match")
	require.Len(t, items, 1)
	assert.Equal(t, VersionArchived, items[0].Kind)
	assert.Equal(t, archived, items[0].Path)
}

func TestResolver_ArchiveNameMatching(t *testing.T) {
	pair := fixture(t)
	source := filepath.Join(pair.LeftPath, "report.txt")
	writeFileAt(t, source, time.Now().Add(-time.Hour))

	old := time.Now().Add(-48 * time.Hour)
	matchNames := []string{
		"report.txt 2024-01-01 120000.txt",
		"report.txt 2023-12-31 235959.txt",
	}
	missNames := []string{
		"report.txt",
		"report.txt 2024-1-01 120000.txt",
		"report.txt 2024-01-01 1200.txt",
		"other.txt 2024-01-01 120000.txt",
		"report.txt backup.txt",
	}
	for _, n := range append(append([]string{}, matchNames...), missNames...) {
		writeFileAt(t, filepath.Join(pair.VersioningFolder, n), old)
	}

	items, _ := newTestResolver().Resolve(source, []*syncpair.SyncPair{pair})

	var archivedNames []string
	for _, it := range items {
		if it.Kind == VersionArchived {
			archivedNames = append(archivedNames, it.FileName)
		}
	}
	assert.ElementsMatch(t, matchNames, archivedNames)
}

func TestResolver_ArchivesFollowRelativeSubdirs(t *testing.T) {
	pair := fixture(t)
	source := filepath.Join(pair.LeftPath, "sub", "dir", "doc.txt")
	writeFileAt(t, source, time.Now().Add(-time.Hour))

	archived := filepath.Join(pair.VersioningFolder, "sub", "dir", "doc.txt 2024-01-01 120000.txt")
	writeFileAt(t, archived, time.Now().Add(-2*time.Hour))

	items, _ := newTestResolver().Resolve(source, []*syncpair.SyncPair{pair})
	require.Len(t, items, 2)
	assert.Equal(t, archived, items[1].Path)
}

func TestResolver_UnrelatedPath(t *testing.T) {
	pair := fixture(t)
	outside := filepath.Join(t.TempDir(), "doc.txt")
	writeFileAt(t, outside, time.Now())

	items, matched := newTestResolver().Resolve(outside, []*syncpair.SyncPair{pair})
	assert.False(t, matched)
	assert.Empty(t, items)
}

func TestResolver_MissingFile(t *testing.T) {
	pair := fixture(t)
	items, matched := newTestResolver().Resolve(filepath.Join(pair.LeftPath, "ghost.txt"), []*syncpair.SyncPair{pair})
	assert.False(t, matched)
	assert.Empty(t, items)
}

func TestResolver_BrokenPairIsSkipped(t *testing.T) {
	good := fixture(t)
	source := filepath.Join(good.LeftPath, "doc.txt")
	writeFileAt(t, source, time.Now().Add(-time.Hour))

	// A pair whose versioning folder does not exist must not poison the
	// resolution: its scan error is swallowed.
	broken := &syncpair.SyncPair{
		Name:             "broken",
		LeftPath:         good.LeftPath,
		RightPath:        filepath.Join(t.TempDir(), "nowhere"),
		VersioningFolder: filepath.Join(t.TempDir(), "no-versions"),
		ConfigPath:       "broken.ffs_batch",
	}

	items, matched := newTestResolver().Resolve(source, []*syncpair.SyncPair{broken, good})
	assert.True(t, matched)
	// Source emitted once per matching pair (both classify the path).
	require.NotEmpty(t, items)
}

func TestResolver_StableSortKeepsEmissionOrder(t *testing.T) {
	pair := fixture(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	source := filepath.Join(pair.LeftPath, "doc.txt")
	mirror := filepath.Join(pair.RightPath, "doc.txt")
	writeFileAt(t, source, base)
	writeFileAt(t, mirror, base) // identical timestamps

	items, _ := newTestResolver().Resolve(source, []*syncpair.SyncPair{pair})
	require.Len(t, items, 2)
	assert.Equal(t, VersionSource, items[0].Kind)
	assert.Equal(t, VersionMirror, items[1].Kind)
}
