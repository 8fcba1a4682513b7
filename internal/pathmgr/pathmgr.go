// Package pathmgr abstracts filesystem access behind protocol-specific
// backends. Sync tools can point folder pairs at local disks, SMB shares or
// FTP servers; callers pick a backend through the Manager by path shape
// instead of hard-coding local filesystem calls.
package pathmgr

import (
	"errors"
	"io"
	"io/fs"
	"strings"
)

var ErrNotSupported = errors.New("pathmgr: backend not supported")

// Backend is the capability surface the history resolver needs from a
// storage protocol.
type Backend interface {
	// IsValid reports whether the path exists.
	IsValid(path string) bool
	// IsFile reports whether the path exists and is a regular file.
	IsFile(path string) bool
	// Stat returns file metadata.
	Stat(path string) (fs.FileInfo, error)
	// List returns the names of the entries directly under dir.
	List(dir string) ([]string, error)
	// Open opens the file for reading.
	Open(path string) (io.ReadCloser, error)
	// Reveal shows the file in the platform's file browser.
	Reveal(path string) error
}

// Manager routes paths to a Backend by prefix sniffing. UNC-style paths go
// to the SMB backend, ftp:// URLs to the FTP backend, everything else to
// the local one. Construct it once and pass it by reference.
type Manager struct {
	local Backend
	smb   Backend
	ftp   Backend
}

func NewManager() *Manager {
	return &Manager{
		local: &LocalBackend{},
		smb:   &smbBackend{},
		ftp:   &ftpBackend{},
	}
}

// Backend returns the backend responsible for the given path.
func (m *Manager) Backend(path string) Backend {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	switch {
	case strings.HasPrefix(p, "//"):
		return m.smb
	case strings.HasPrefix(p, "ftp://"):
		return m.ftp
	default:
		return m.local
	}
}

func (m *Manager) IsValid(path string) bool {
	return m.Backend(path).IsValid(path)
}

func (m *Manager) IsFile(path string) bool {
	return m.Backend(path).IsFile(path)
}

func (m *Manager) Stat(path string) (fs.FileInfo, error) {
	return m.Backend(path).Stat(path)
}

func (m *Manager) List(dir string) ([]string, error) {
	return m.Backend(dir).List(dir)
}

func (m *Manager) Open(path string) (io.ReadCloser, error) {
	return m.Backend(path).Open(path)
}

func (m *Manager) Reveal(path string) error {
	return m.Backend(path).Reveal(path)
}
