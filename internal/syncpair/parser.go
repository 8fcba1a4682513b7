package syncpair

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedConfig is returned by ParserFor when no parser is
// registered for a file's suffix. It means "not ours", not failure.
var ErrUnsupportedConfig = errors.New("syncpair: unsupported config file type")

// Parser turns one sync-tool job configuration file into folder pairs.
type Parser interface {
	Parse(configPath string) ([]*SyncPair, error)
}

// ParserFor selects a Parser implementation by the file's extension.
func ParserFor(configPath string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".ffs_batch":
		return &FFSBatchParser{}, nil
	default:
		return nil, ErrUnsupportedConfig
	}
}
