// Package config persists the application's own state: which sync job
// configs are loaded and where the annotation store lives.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/verscope/verscope/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultAppDir     = filepath.Join(home, ".verscope")
	DefaultConfigPath = filepath.Join(DefaultAppDir, "config.toml")
)

type Config struct {
	// SyncConfigs are the sync-tool job files loaded into the registry.
	SyncConfigs []string `toml:"sync_configs"`
	// RemarksDBPath locates the annotation store.
	RemarksDBPath string `toml:"remarks_db_path"`

	Path string `toml:"-"`
}

// Load reads the config at path, tolerating a missing file by returning
// defaults. A present-but-broken file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Path:          path,
		RemarksDBPath: filepath.Join(filepath.Dir(path), "remarks.db"),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.RemarksDBPath == "" {
		cfg.RemarksDBPath = filepath.Join(filepath.Dir(path), "remarks.db")
	}
	return cfg, nil
}

// Save writes the config atomically via a temp file rename.
func (c *Config) Save() error {
	if err := utils.EnsureParent(c.Path); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.Path)
}

// AddSyncConfig records a loaded job file. Returns false if it was already
// present.
func (c *Config) AddSyncConfig(path string) bool {
	if slices.Contains(c.SyncConfigs, path) {
		return false
	}
	c.SyncConfigs = append(c.SyncConfigs, path)
	return true
}

// RemoveSyncConfig forgets a job file. Returns whether it was present.
func (c *Config) RemoveSyncConfig(path string) bool {
	before := len(c.SyncConfigs)
	c.SyncConfigs = slices.DeleteFunc(c.SyncConfigs, func(p string) bool { return p == path })
	return len(c.SyncConfigs) != before
}
