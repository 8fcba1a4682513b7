package pathmgr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_BackendSelection(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name string
		path string
		want Backend
	}{
		{"local absolute", "/home/user/doc.txt", m.local},
		{"local relative", "doc.txt", m.local},
		{"unc forward slashes", "//server/share/doc.txt", m.smb},
		{"unc backslashes", `\\server\share\doc.txt`, m.smb},
		{"ftp url", "ftp://host/dir/doc.txt", m.ftp},
		{"ftp url mixed case", "FTP://host/dir/doc.txt", m.ftp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, m.Backend(tt.path))
		})
	}
}

func TestLocalBackend_FileOps(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))

	local := &LocalBackend{}

	assert.True(t, local.IsValid(tmp))
	assert.True(t, local.IsValid(file))
	assert.False(t, local.IsValid(filepath.Join(tmp, "missing")))

	assert.True(t, local.IsFile(file))
	assert.False(t, local.IsFile(tmp))

	names, err := local.List(tmp)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.txt"}, names)

	info, err := local.Stat(file)
	require.NoError(t, err)
	assert.EqualValues(t, 7, info.Size())
}

func TestRemoteBackends_NotSupported(t *testing.T) {
	m := NewManager()

	assert.False(t, m.IsValid("//server/share/doc.txt"))
	assert.False(t, m.IsFile("ftp://host/doc.txt"))

	_, err := m.List("//server/share")
	assert.True(t, errors.Is(err, ErrNotSupported))

	_, err = m.Open("ftp://host/doc.txt")
	assert.True(t, errors.Is(err, ErrNotSupported))
}
