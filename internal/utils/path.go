package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolvePath expands `~`, resolves symlinks where possible and returns a
// cleaned absolute path. A path that does not exist on disk is still
// resolved lexically.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	// Expand `~` to the user's home directory
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("failed to retrieve home directory")
		}
		path = strings.Replace(path, "~", homeDir, 1)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Resolve symlinks when the target exists. EvalSymlinks fails on
	// missing paths, which is fine for lookups of files not yet created.
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}

	return filepath.Clean(absPath), nil
}

// NormalizePath converts a path into the canonical forward-slash form used
// as the primary key of the remarks store.
func NormalizePath(path string) (string, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(resolved), nil
}

// PathsEqual compares two cleaned absolute paths, folding case on
// platforms with case-insensitive filesystems.
func PathsEqual(a, b string) bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	return EnsureDir(dir)
}

func EnsureDir(path string) error {
	// already exists
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.MkdirAll(path, 0o755)
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
