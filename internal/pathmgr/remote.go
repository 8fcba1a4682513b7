package pathmgr

import (
	"io"
	"io/fs"
)

// smbBackend and ftpBackend reserve the protocol slots without implementing
// them. Every call fails with ErrNotSupported so remote folder pairs degrade
// to empty results instead of being misread as local paths.

type smbBackend struct{}

func (s *smbBackend) IsValid(path string) bool              { return false }
func (s *smbBackend) IsFile(path string) bool               { return false }
func (s *smbBackend) Stat(path string) (fs.FileInfo, error) { return nil, ErrNotSupported }
func (s *smbBackend) List(dir string) ([]string, error)     { return nil, ErrNotSupported }
func (s *smbBackend) Open(path string) (io.ReadCloser, error) {
	return nil, ErrNotSupported
}
func (s *smbBackend) Reveal(path string) error { return ErrNotSupported }

type ftpBackend struct{}

func (f *ftpBackend) IsValid(path string) bool              { return false }
func (f *ftpBackend) IsFile(path string) bool               { return false }
func (f *ftpBackend) Stat(path string) (fs.FileInfo, error) { return nil, ErrNotSupported }
func (f *ftpBackend) List(dir string) ([]string, error)     { return nil, ErrNotSupported }
func (f *ftpBackend) Open(path string) (io.ReadCloser, error) {
	return nil, ErrNotSupported
}
func (f *ftpBackend) Reveal(path string) error { return ErrNotSupported }
