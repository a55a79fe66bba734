// Package config loads the daemon's TOML configuration file, following
// aidanlsb-raven's github.com/BurntSushi/toml-based Default/Load shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the daemon's on-disk configuration. cmd/navcd's command line
// can override StoreDir, SocketPath, IndexDirs and Verbose, and takes
// precedence when set; the other fields come from the file only.
type Config struct {
	// StoreDir is where the persisted snapshot cache lives (internal/store).
	StoreDir string `toml:"store_dir"`

	// SocketPath is the unix socket the RPC read-API listens on.
	SocketPath string `toml:"socket_path"`

	// IndexDirs lists the directories walked and watched for source changes.
	IndexDirs []string `toml:"index_dirs"`

	// IndexingThreads is the configured indexing parallelism; Load replaces
	// zero or negative values with runtime.NumCPU(). cmd/navcd does not read
	// it and indexes one file at a time.
	IndexingThreads int `toml:"indexing_threads"`

	// IndexerCmd is the external indexer executable invoked as
	// `IndexerCmd <path>`, expected to write one encoded Index Snapshot to
	// stdout (spec §1's clang-based indexer is out of scope for this
	// module; this is the seam it plugs into).
	IndexerCmd string `toml:"indexer_cmd"`

	// IndexerFormat selects how the indexer's stdout is decoded: "gob"
	// (default) or "json". See internal/serialize.
	IndexerFormat string `toml:"indexer_format"`

	Verbose bool `toml:"verbose"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		StoreDir:        filepath.Join(".", ".navc"),
		SocketPath:      defaultSocketPath(),
		IndexDirs:       []string{"."},
		IndexingThreads: runtime.NumCPU(),
		IndexerFormat:   "gob",
	}
}

func defaultSocketPath() string {
	if runtime.GOOS == "windows" {
		return `\\.\pipe\navc`
	}
	return filepath.Join(os.TempDir(), "navc.sock")
}

// Load reads path, filling in Default() for any field TOML leaves unset.
// A missing file is not an error: Load returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.IndexingThreads <= 0 {
		cfg.IndexingThreads = runtime.NumCPU()
	}
	return cfg, nil
}
