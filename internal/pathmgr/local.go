package pathmgr

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// LocalBackend implements Backend on the OS filesystem.
type LocalBackend struct{}

func (l *LocalBackend) IsValid(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *LocalBackend) IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (l *LocalBackend) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (l *LocalBackend) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (l *LocalBackend) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Reveal opens the containing folder with the file selected where the
// platform supports it.
func (l *LocalBackend) Reveal(path string) error {
	if !l.IsValid(path) {
		return fmt.Errorf("reveal %s: %w", path, os.ErrNotExist)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", "-R", path).Start()
	case "windows":
		return exec.Command("explorer", "/select,", path).Start()
	default:
		// No selection support with xdg-open, open the parent folder.
		return exec.Command("xdg-open", filepath.Dir(path)).Start()
	}
}
